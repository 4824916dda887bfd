package server

import (
	"net/http"

	app "stylerelay/src/app"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const generationFailedMessage = "image generation failed, please try again later. details: "

type (
	RelayHandler struct {
		transformer app.ImageTransformer
	}

	GenerateImageResponse struct {
		Output string `json:"output"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)

func NewRelayHandler(transformer app.ImageTransformer) *RelayHandler {
	return &RelayHandler{transformer: transformer}
}

func (h *RelayHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GenerateImage validates the upload, forwards it upstream and answers with
// the generated image URL.
func (h *RelayHandler) GenerateImage(c *gin.Context) {
	l := requestLogger(c).With().Str("route", c.FullPath()).Logger()

	raw, err := readRawRequest(c, l)
	if err != nil {
		h.fail(c, l, err)
		return
	}

	request, err := app.ValidateRequest(raw)
	if err != nil {
		h.fail(c, l, err)
		return
	}

	result, err := h.transformer.Transform(c.Request.Context(), request)
	if err != nil {
		h.fail(c, l, err)
		return
	}

	l.Info().Str("output", result.URL).Msg("image generated")
	c.JSON(http.StatusOK, GenerateImageResponse{Output: result.URL})
}

func (h *RelayHandler) fail(c *gin.Context, l zerolog.Logger, err error) {
	if app.IsValidationError(err) {
		l.Warn().Err(err).Msg("rejected generate request")
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	l.Error().Err(err).Msg("failed to generate image")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: generationFailedMessage + err.Error()})
}
