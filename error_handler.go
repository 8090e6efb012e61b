package aadauth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/portalinsights/aadauth/core"
)

const detailInternal = "An error occurred during token verification."

// ErrorHandler is called when Authenticate fails inside CheckAuth. It decides
// the response written to the caller. The err can be inspected with
// core.KindOf or errors.Is against core.ErrUnauthenticated and
// core.ErrProviderUnavailable.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ErrorResponse is the JSON body written by ChallengeErrorHandler.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ChallengeErrorHandler returns the default ErrorHandler.
//
// Caller-correctable failures get 401 Unauthorized and a WWW-Authenticate
// header set to challenge. Every other failure, including
// core.KindKeyFetchFailed, gets 500 Internal Server Error and no challenge.
// The body is {"detail": "..."} in both cases.
func ChallengeErrorHandler(challenge string) ErrorHandler {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		status, detail := StatusAndDetail(err)
		if status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", challenge)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Detail: detail})
	}
}

// StatusAndDetail maps an authentication failure to its HTTP status and the
// detail safe to show the caller.
func StatusAndDetail(err error) (int, string) {
	var authErr *core.AuthError
	if !errors.As(err, &authErr) {
		return http.StatusInternalServerError, detailInternal
	}

	if authErr.Kind.IsClientError() {
		return http.StatusUnauthorized, authErr.Detail
	}
	return http.StatusInternalServerError, authErr.Detail
}
