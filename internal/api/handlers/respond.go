package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/fastcm/shophub-be/internal/apperrors"
)

// respondJSON writes v as a JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes a coded error as the uniform inline JSON body every
// form and flow renders. Every failure path goes through here so clients
// see one shape regardless of which operation failed.
func respondError(w http.ResponseWriter, err error) {
	code := apperrors.CodeOf(err)
	respondJSON(w, statusForCode(code), map[string]string{
		"code":  string(code),
		"error": err.Error(),
	})
}

func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.CodeAuthError:
		return http.StatusUnauthorized
	case apperrors.CodeEmailInUse:
		return http.StatusConflict
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
