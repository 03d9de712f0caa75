package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/MikeSquared-Agency/Oshichecker/internal/catalog"
	"github.com/MikeSquared-Agency/Oshichecker/internal/diagnosis"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes a JSON body into v and runs its validate tags.
func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	var ve validator.ValidationErrors
	switch {
	case diagnosis.IsValidation(err),
		errors.Is(err, catalog.ErrOptionCount),
		errors.Is(err, catalog.ErrUnknownOption),
		errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, catalog.ErrUnknownQuestion):
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
