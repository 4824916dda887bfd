package app

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MaxPixelCount is the largest width*height accepted, 16 megapixels.
	MaxPixelCount = 16_777_216

	defaultContentType = "application/octet-stream"
)

// decimalPattern admits plain decimal notation only. strconv also takes hex
// floats, underscores, Inf and NaN.
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

type (
	// Upload is the client's image for one request. Filename and ContentType
	// are passed upstream as declared and never checked against the bytes.
	Upload struct {
		Content     []byte
		Filename    string
		ContentType string
	}

	// RawRequest holds the form values as received. Upload is nil when the
	// request carried no image part.
	RawRequest struct {
		Upload   *Upload
		Prompt   string
		Strength string
	}

	TransformationRequest struct {
		Upload   Upload
		Prompt   string
		Strength float64
	}

	TransformationResult struct {
		URL string
	}
)

// ValidateRequest checks the raw form values in order and returns the first
// failure. The image header is only decoded once the text fields are valid.
func ValidateRequest(raw RawRequest) (*TransformationRequest, error) {
	if raw.Upload == nil {
		return nil, ErrMissingFile
	}

	if raw.Prompt == "" {
		return nil, ErrMissingPrompt
	}

	strength, err := ParseStrength(raw.Strength)
	if err != nil {
		return nil, err
	}

	if err := CheckResolution(raw.Upload.Content); err != nil {
		return nil, err
	}

	return &TransformationRequest{
		Upload:   *raw.Upload,
		Prompt:   raw.Prompt,
		Strength: strength,
	}, nil
}

// ParseStrength parses a strength value in the closed interval [0,1].
func ParseStrength(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if !decimalPattern.MatchString(value) {
		return 0, ErrInvalidStrength
	}

	strength, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(strength) || strength < 0 || strength > 1 {
		return 0, ErrInvalidStrength
	}
	return strength, nil
}

// FormatStrength renders the strength the way it is sent upstream: the
// shortest decimal that parses back to the same value.
func FormatStrength(strength float64) string {
	return strconv.FormatFloat(strength, 'f', -1, 64)
}

func (u Upload) MediaType() string {
	if u.ContentType == "" {
		return defaultContentType
	}
	return u.ContentType
}
