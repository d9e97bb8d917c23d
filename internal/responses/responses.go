package responses

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// this is the message to show when authentication info is required but was not provided in the request
// this is NOT the message for when auth info is provided but is not correct
const AuthRequiredErrorMessage = "authentication required"

// InternalErrorMessage is shown to the caller in place of storage and other unclassified errors.
const InternalErrorMessage = "internal server error"

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// AddJSONContentType prepares HTTP response writer for JSON content-type.
func AddJSONContentType(w http.ResponseWriter) {
	w.Header().Add("content-type", "application/json; charset=utf-8")
}

// JSON writes v as a JSON response with status 200.
func JSON(w http.ResponseWriter, v interface{}) {
	WriteJSON(w, http.StatusOK, v)
}

// WriteJSON writes v as a JSON response with the given status code.
// Non-ASCII and HTML characters are written as is.
func WriteJSON(w http.ResponseWriter, code int, v interface{}) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	AddJSONContentType(w)
	w.WriteHeader(code)
	w.Write(bytes.TrimRight(buf.Bytes(), "\n"))
}

// Detail writes an error response in the {"detail": "..."} form.
func Detail(w http.ResponseWriter, code int, detail string) {
	WriteJSON(w, code, ErrorBody{Detail: detail})
}
