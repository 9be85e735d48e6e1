package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// errorResponse is the body of every error reply; the error field is the
// machine-readable detail clients key on.
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response with proper error handling
func (a *API) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		a.logger.Errorw("Failed to encode JSON response",
			"error", err,
			"data_type", fmt.Sprintf("%T", data))
		// Response already started, can't send error to client
	}
}

// writeError writes a JSON error response to the client and logs it
func (a *API) writeError(w http.ResponseWriter, statusCode int, message string, err error) {
	if err != nil {
		a.logger.Errorw(message,
			"error", err.Error(),
			"status_code", statusCode,
		)
	} else {
		a.logger.Errorw(message,
			"status_code", statusCode,
		)
	}

	a.respondJSON(w, errorResponse{Error: message}, statusCode)
}

// decodeJSONBody decodes a JSON request body into dst, enforcing the
// configured body size limit. Writes the 400 response itself on failure.
func (a *API) decodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, a.config.API.JSONBodyLimit)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	err := decoder.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError

		switch {
		case errors.As(err, &syntaxError):
			a.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON syntax at byte offset %d", syntaxError.Offset), err)
		case errors.As(err, &unmarshalTypeError):
			a.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid type for field '%s': expected %s, got %s", unmarshalTypeError.Field, unmarshalTypeError.Type, unmarshalTypeError.Value), err)
		case err.Error() == "http: request body too large":
			a.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", err)
		default:
			a.writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		}
		return err
	}

	return nil
}
