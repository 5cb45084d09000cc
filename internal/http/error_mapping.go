package httpx

import (
	"errors"
	"net/http"

	"github.com/days/lms-ui-api/internal/gateway"
)

// writeGatewayError maps a gateway failure onto the JSON error surface. Every
// failed backend call produces a response body; nothing is swallowed.
//
//   - credential rejection: the session is already cleared by the gateway,
//     the caller gets 401 and should re-authenticate.
//   - transport failure: 502, the backend never answered and the session is
//     untouched.
//   - any other backend status: passed through with the backend's message.
func writeGatewayError(w http.ResponseWriter, err error) {
	if errors.Is(err, gateway.ErrCredentialRejected) {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "session_expired",
			Err:     errors.New("session expired, sign in again"),
		})
		return
	}

	var te *gateway.TransportError
	if errors.As(err, &te) {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadGateway,
			ErrCode: "backend_unreachable",
			Err:     errors.New("backend unavailable, try again shortly"),
		})
		return
	}

	var se *gateway.StatusError
	if errors.As(err, &se) {
		message := se.Message
		if message == "" {
			message = http.StatusText(se.Code)
		}
		WriteError(w, ErrorParams{
			Code:    se.Code,
			ErrCode: "backend_error",
			Err:     errors.New(message),
		})
		return
	}

	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: "internal_error",
		Err:     err,
	})
}
