package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

var ErrInvalidContentType = errors.New("invalid content type")

// DecodeJSONBody checks the request is JSON and decodes its body into v.
func DecodeJSONBody(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != ContentType.JSON {
		return ErrInvalidContentType
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid json body: %w", err)
	}
	return nil
}

// UUIDVar parses the named mux path variable as a UUID.
func UUIDVar(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%s empty", name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %s", name, raw)
	}
	return id, nil
}
