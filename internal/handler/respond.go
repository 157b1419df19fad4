package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/DukeRupert/kalkyl/internal/domain"
)

// maxRequestBody caps JSON request bodies at 1 MB. Questionnaire snapshots
// are a few KB at most.
const maxRequestBody = 1 << 20

// decodeJSON decodes the request body into dst, returning an EINVALID domain
// error with a client-safe message on any decode failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxBytesErr *http.MaxBytesError

		switch {
		case errors.Is(err, io.EOF):
			return domain.Invalid("", "Request body must not be empty")
		case errors.As(err, &syntaxErr):
			return domain.Invalid("", fmt.Sprintf("Request body contains malformed JSON at position %d", syntaxErr.Offset))
		case errors.As(err, &typeErr):
			field := typeErr.Field
			if field == "" {
				field = "body"
			}
			return domain.Invalid("", fmt.Sprintf("Request body has an invalid value for %q", field))
		case errors.As(err, &maxBytesErr):
			return domain.Invalid("", "Request body is too large")
		default:
			return domain.Invalid("", "Request body could not be parsed")
		}
	}

	// Trailing garbage after the JSON document is a client bug.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return domain.Invalid("", "Request body must contain a single JSON object")
	}
	return nil
}
