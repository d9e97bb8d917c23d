package accounts

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ankproject/ank-api/internal/metrics"
	"github.com/ankproject/ank-api/internal/responses"

	"github.com/go-chi/render"
)

// CreateAccountRequest is the decoded body of POST /v1/account.
type CreateAccountRequest struct {
	Name string
}

type CreateAccountResponse struct {
	AccountID string `json:"account_id"`
}

// MaxRequestBodyBytes caps the create account body, which carries at most a display name.
const MaxRequestBodyBytes = 16 << 10

// DecodeCreateAccountRequest reads a JSON object from body. An empty body or null counts as {},
// a name that is missing or not a string becomes "". Unknown fields are ignored.
func DecodeCreateAccountRequest(body io.Reader) (CreateAccountRequest, error) {
	req := CreateAccountRequest{}
	raw := map[string]interface{}{}
	if body != nil {
		err := render.DecodeJSON(body, &raw)
		var tooLarge *http.MaxBytesError
		switch {
		case err == nil, errors.Is(err, io.EOF):
		case errors.As(err, &tooLarge):
			return req, ErrBodyTooLarge
		default:
			return req, ErrInvalidPayload
		}
	}
	if name, ok := raw["name"].(string); ok {
		req.Name = strings.TrimSpace(name)
	}
	return req, nil
}

// Response is a rendered reply of the accounts handler.
type Response struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	AccountID string `json:"account_id,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

func (e *Response) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ResponseAccountCreated(accountID string) render.Renderer {
	return &Response{HTTPStatusCode: http.StatusOK, AccountID: accountID}
}

// ErrResponse renders err as {"detail": ...}. Errors other than *StatusError are hidden
// behind a generic message.
func ErrResponse(err error) render.Renderer {
	var se *StatusError
	if errors.As(err, &se) {
		return &Response{Err: err, HTTPStatusCode: se.Code, Detail: se.Detail}
	}
	return &Response{Err: err, HTTPStatusCode: http.StatusInternalServerError, Detail: responses.InternalErrorMessage}
}

func errorKind(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Kind
	}
	return metrics.ErrorKindStorage
}
