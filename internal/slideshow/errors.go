package slideshow

import (
	"errors"
	"net/http"
)

var (
	ErrMissingInput          = errors.New("a valid URL is required")
	ErrFetch                 = errors.New("failed to fetch URL")
	ErrNonceNotFound         = errors.New("slideshow nonce not found in article page")
	ErrDataAttributeNotFound = errors.New("data-images attribute not found in HTML")
	ErrAttributeValue        = errors.New("failed to extract data-images value")
	ErrMalformedPayload      = errors.New("failed to parse slideshow data")
)

// HTTPStatus maps a pipeline error to the status code reported to API clients.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNonceNotFound), errors.Is(err, ErrDataAttributeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message is the user-facing text for err. Errors outside the pipeline's
// taxonomy are reported generically.
func Message(err error) string {
	for _, known := range []error{
		ErrMissingInput, ErrFetch, ErrNonceNotFound,
		ErrDataAttributeNotFound, ErrAttributeValue, ErrMalformedPayload,
	} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}
	return ErrMalformedPayload.Error()
}
