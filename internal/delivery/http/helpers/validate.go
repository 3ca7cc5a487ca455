package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

const maxBodyBytes = 1 << 20

// Validator is implemented by request DTOs that support validation.
// Validate returns a slice of error messages; nil or empty means valid.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dest (with DisallowUnknownFields)
// and, if dest implements Validator, runs Validate(). On decode or validation failure
// it writes a 400 JSON error and returns false; otherwise returns true.
// Callers should return immediately when DecodeAndValidate returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		msg := err.Error()
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, msg)
		return false
	}
	if v, ok := dest.(Validator); ok {
		if errs := v.Validate(); len(errs) > 0 {
			WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
			return false
		}
	}
	return true
}

// PathUUID returns the named path value in canonical UUID form. When the value is not a UUID it
// writes a 400 and returns false.
func PathUUID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	id, ok := CanonicalUUID(r.PathValue(name))
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid "+name)
		return "", false
	}
	return id, true
}

// CanonicalUUID parses s in any form accepted by uuid.Parse (braced, urn:uuid:, bare hex) and
// returns the lowercase hyphenated form stored in the database.
func CanonicalUUID(s string) (string, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
