package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const upstreamErrorExcerpt = 512

// ImageTransformer turns a validated request into a result URL.
type ImageTransformer interface {
	Transform(ctx context.Context, request *TransformationRequest) (*TransformationResult, error)
}

// RecraftClient calls the Recraft imageToImage endpoint.
type RecraftClient struct {
	endpoint string
	client   *http.Client
}

type recraftResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// NewRecraftClient builds a client whose transport attaches apiKey as a
// bearer token. A zero timeout leaves requests bounded only by their context.
func NewRecraftClient(endpoint, apiKey string, timeout time.Duration) *RecraftClient {
	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"}),
		Base: &http.Transport{
			Proxy:              http.ProxyFromEnvironment,
			MaxIdleConns:       10,
			IdleConnTimeout:    90 * time.Second,
			DisableCompression: true,
		},
	}

	return &RecraftClient{
		endpoint: endpoint,
		client:   &http.Client{Transport: transport, Timeout: timeout},
	}
}

func (r *RecraftClient) Transform(ctx context.Context, request *TransformationRequest) (*TransformationResult, error) {
	body, contentType, err := prepareMultipartBody(request)
	if err != nil {
		return nil, fmt.Errorf("error during prepare: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("error during request prepare: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	log.Debug().
		Str("endpoint", r.endpoint).
		Int("bytes", body.Len()).
		Msg("sending image to recraft")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, upstreamErrorExcerpt))
		return nil, fmt.Errorf("%w: recraft returned non-success status %d %s: %s",
			ErrUpstream, resp.StatusCode, http.StatusText(resp.StatusCode), strings.TrimSpace(string(excerpt)))
	}

	var result recraftResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: can not decode body: %v", ErrMalformedUpstreamResponse, err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("%w: no images returned", ErrMalformedUpstreamResponse)
	}

	if result.Data[0].URL == "" {
		return nil, fmt.Errorf("%w: first image has no url", ErrMalformedUpstreamResponse)
	}

	log.Debug().Str("url", result.Data[0].URL).Msg("recraft response")

	return &TransformationResult{URL: result.Data[0].URL}, nil
}

// prepareMultipartBody writes the image with its declared filename and media
// type, then prompt and strength as plain fields.
func prepareMultipartBody(request *TransformationRequest) (*bytes.Buffer, string, error) {
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`,
		quoteEscaper.Replace(request.Upload.Filename)))
	header.Set("Content-Type", request.Upload.MediaType())

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(request.Upload.Content); err != nil {
		return nil, "", err
	}

	if err := writer.WriteField("prompt", request.Prompt); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("strength", FormatStrength(request.Strength)); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
