package test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// HTTPTest describes a single request and the response expected for it.
// Empty expectations are not checked.
type HTTPTest struct {
	Name string

	Method string
	URL    string

	ReqBody    io.Reader
	ReqHeader  map[string]string
	RemoteAddr string

	Code        int
	ResBody     string
	ResJSON     string
	ResHeader   map[string]string
	ResContains string
}

// Run serves the request with handler and checks the recorded response.
func (test *HTTPTest) Run(handler http.Handler, t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(test.Method, test.URL, test.ReqBody)
	require.NoError(t, err)
	req.RemoteAddr = test.RemoteAddr
	if req.RemoteAddr == "" {
		req.RemoteAddr = "192.0.2.1:1234"
	}

	for key, value := range test.ReqHeader {
		req.Header.Set(key, value)
	}

	req.Host = "ank.local"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	test.check(t, w.Code, w.Header(), w.Body.String())
	return w
}

// RunHTTP sends the request over the network, URL must be absolute.
func (test *HTTPTest) RunHTTP(t *testing.T) *http.Response {
	t.Helper()
	request, err := http.NewRequest(test.Method, test.URL, test.ReqBody)
	require.NoError(t, err)

	for key, value := range test.ReqHeader {
		request.Header.Set(key, value)
	}

	response, err := http.DefaultClient.Do(request)
	require.NoError(t, err)
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	require.NoError(t, err)

	test.check(t, response.StatusCode, response.Header, string(body))
	return response
}

func (test *HTTPTest) check(t *testing.T, code int, header http.Header, body string) {
	t.Helper()
	if code != test.Code {
		t.Errorf("Expected %v %s as status code (got %v %s)", test.Code, http.StatusText(test.Code), code, http.StatusText(code))
	}

	for key, value := range test.ResHeader {
		if h := header.Get(key); value != h {
			t.Errorf("Expected '%s' as '%s' (got '%s')", value, key, h)
		}
	}

	if test.ResBody != "" && body != test.ResBody {
		t.Errorf("Expected '%s' as body (got '%s')", test.ResBody, body)
	}

	if test.ResJSON != "" {
		AssertEqualJSON(t, test.ResJSON, body)
	}

	if test.ResContains != "" && !strings.Contains(body, test.ResContains) {
		t.Errorf("Expected '%s' to be present in response (got '%s')", test.ResContains, body)
	}
}
