package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/pisearch/internal/core"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// QueryRequest is a compound search as sent by the UI or an API client.
// JSON field names match core.Query; URL and form values carry the general
// text as "q".
type QueryRequest struct {
	Origin   string `json:"origin" validate:"max=1024"`
	Category string `json:"category" validate:"max=1024"`
	Interest string `json:"interest" validate:"max=256"`
	General  string `json:"general" validate:"max=256"`
}

// Query converts the request to a core.Query. Search text is passed through
// as typed, surrounding spaces included.
func (q QueryRequest) Query() core.Query {
	return core.Query{
		Origin:   q.Origin,
		Category: q.Category,
		Interest: q.Interest,
		General:  q.General,
	}
}

// RolesRequest overrides the classified columns. An empty name clears the role.
type RolesRequest struct {
	Category string `json:"category" validate:"max=1024"`
	Interest string `json:"interest" validate:"max=1024"`
}

// UploadForm holds the non-file fields of a multipart upload.
type UploadForm struct {
	Mode string `validate:"omitempty,oneof=auto single multi"`
}

// queryFromValues reads a QueryRequest from URL or form values.
func queryFromValues(get func(string) string) QueryRequest {
	return QueryRequest{
		Origin:   get("origin"),
		Category: get("category"),
		Interest: get("interest"),
		General:  get("q"),
	}
}

// decodeQuery reads a QueryRequest from a JSON body, or from form and URL
// values for HTMX form posts.
func decodeQuery(r *http.Request) (QueryRequest, error) {
	var req QueryRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		return req, decodeJSON(r, &req)
	}
	if err := r.ParseForm(); err != nil {
		return req, fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	req = queryFromValues(r.Form.Get)
	return req, validateRequest(req)
}

// decodeJSON decodes a JSON body into v and validates it.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidRequest, err)
	}
	return validateRequest(v)
}

// validateRequest runs struct validation and reports the first failing
// field as an errInvalidRequest.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s failed %s", errInvalidRequest, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", errInvalidRequest, err)
}
