package retrieval

import (
	"net/http"

	"github.com/animica/da/daerrors"
)

// wireError is the JSON body returned for any non-2xx response.
type wireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps a daerrors.Kind to an HTTP status code. Kind classification
// happens once at the handler boundary; pure components never see an HTTP
// status.
func statusFor(kind daerrors.Kind) int {
	switch kind {
	case daerrors.KindValidation:
		return http.StatusBadRequest
	case daerrors.KindNotFound:
		return http.StatusNotFound
	case daerrors.KindInvalidProof:
		return http.StatusUnprocessableEntity
	case daerrors.KindDecodeFailure:
		return http.StatusUnprocessableEntity
	case daerrors.KindConflict:
		return http.StatusConflict
	case daerrors.KindResource:
		return http.StatusRequestEntityTooLarge
	case daerrors.KindStoreCorruption:
		return http.StatusInternalServerError
	case daerrors.KindIO:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
