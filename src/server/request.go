package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	app "stylerelay/src/app"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	imageFormField    = "image"
	promptFormField   = "prompt"
	strengthFormField = "strength"
)

// readRawRequest collects the multipart fields of a generate request. A
// missing image part, or a body that is not multipart at all, leaves Upload
// nil so validation reports it. A multipart body that fails to parse is
// returned as an error.
func readRawRequest(c *gin.Context, l zerolog.Logger) (app.RawRequest, error) {
	raw := app.RawRequest{}

	fileHeader, err := c.FormFile(imageFormField)
	if err != nil && !isAbsentFile(err) {
		l.Warn().Err(err).Msg("can not parse multipart form")
		return raw, fmt.Errorf("can not parse multipart form: %w", err)
	}
	logFileDescriptor(l, fileHeader, err)

	raw.Prompt = c.PostForm(promptFormField)
	raw.Strength = c.PostForm(strengthFormField)

	if err != nil {
		return raw, nil
	}

	upload, err := readUpload(fileHeader)
	if err != nil {
		return raw, err
	}
	raw.Upload = upload

	return raw, nil
}

func isAbsentFile(err error) bool {
	return errors.Is(err, http.ErrMissingFile) ||
		errors.Is(err, http.ErrNotMultipart) ||
		errors.Is(err, http.ErrMissingBoundary)
}

func readUpload(fileHeader *multipart.FileHeader) (*app.Upload, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("can not open uploaded image: %w", err)
	}
	defer file.Close()

	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, file); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return &app.Upload{
		Content:     buffer.Bytes(),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, nil
}

func logFileDescriptor(l zerolog.Logger, fileHeader *multipart.FileHeader, err error) {
	if err != nil {
		l.Info().Str("field", imageFormField).AnErr("reason", err).Msg("request has no image file")
		return
	}
	l.Info().
		Str("field", imageFormField).
		Str("filename", fileHeader.Filename).
		Str("contentType", fileHeader.Header.Get("Content-Type")).
		Int64("size", fileHeader.Size).
		Msg("received image file")
}
