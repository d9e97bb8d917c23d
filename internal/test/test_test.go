package test

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssertEqualJSON(t *testing.T) {
	testCases := []struct {
		a, b interface{}
		same bool
	}{
		{"{}", "12", false},
		{"{}", "{}", true},
		{"{}", "", false},
		{`{"a":1,"b":2}`, `{"b":2,"a":1}`, true},
		{`{"account_id":"acc_1"}`, map[string]string{"account_id": "acc_1"}, true},
		{`{"account_id":"acc_1"}`, []byte(`{"account_id":"acc_2"}`), false},
	}

	for i, tc := range testCases {
		testT := &testing.T{}
		same := AssertEqualJSON(testT, tc.a, tc.b)
		if tc.same {
			assert.True(t, same, "Case %d same", i)
			assert.False(t, testT.Failed(), "Case %d failure", i)
		} else {
			assert.False(t, same, "Case %d same", i)
			assert.True(t, testT.Failed(), "Case %d failure", i)
		}
	}
}

func TestHTTPTestRun(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Host", r.Host)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"method": "` + r.Method + `"}`))
	})
	(&HTTPTest{
		Method:      http.MethodPost,
		URL:         "/v1/account",
		Code:        http.StatusCreated,
		ResHeader:   map[string]string{"X-Host": "ank.local"},
		ResJSON:     `{"method":"POST"}`,
		ResContains: "POST",
	}).Run(handler, t)
}

func TestRandomFixtures(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^[a-zA-Z0-9]{28}$`), RandomUID())
	assert.NotEqual(t, RandomUID(), RandomUID())
	assert.Contains(t, RandomEmail(), "@")
	assert.NotEmpty(t, RandomAccountName())
}

func TestClock(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c := NewClock(start)
	assert.Equal(t, start, c.Now())
	c.Advance(time.Second)
	assert.Equal(t, start.Add(time.Second), c.Now())
}
