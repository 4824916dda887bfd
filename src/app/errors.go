package app

import "errors"

var (
	// validation errors, answered with 400
	ErrMissingFile        = errors.New("please upload an image file")
	ErrMissingPrompt      = errors.New("please provide a style prompt")
	ErrInvalidStrength    = errors.New("strength must be between 0 and 1")
	ErrResolutionTooLarge = errors.New("image resolution must not exceed 16 MP, please upload another image")

	// upstream errors, answered with 500
	ErrUpstream                  = errors.New("upstream request failed")
	ErrMalformedUpstreamResponse = errors.New("malformed upstream response")
)

var validationErrors = []error{
	ErrMissingFile,
	ErrMissingPrompt,
	ErrInvalidStrength,
	ErrResolutionTooLarge,
}

// IsValidationError reports whether err was caused by the client's input.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
