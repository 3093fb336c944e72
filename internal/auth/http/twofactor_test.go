package http

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		body     string
		required bool
		wantCode string
		wantOK   bool
	}{
		{"six digit code", `{"token":"123456"}`, true, "123456", true},
		{"empty body optional", ``, false, "", true},
		{"empty body required", ``, true, "", false},
		{"empty token optional", `{"token":""}`, false, "", true},
		{"empty token required", `{"token":""}`, true, "", false},
		{"too long", `{"token":"1234567"}`, true, "", false},
		{"too short", `{"token":"12345"}`, false, "", false},
		{"not json", `token=123456`, true, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/2fa/activate", strings.NewReader(tc.body))
			code, ok := decodeCode(req, tc.required)
			require.Equal(t, tc.wantOK, ok)
			require.Equal(t, tc.wantCode, code)
		})
	}
}

func TestLivezHandler(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	LivezHandler(time.Now(), "test")(w, httptest.NewRequest("GET", "/livez", nil))
	require.Equal(t, 200, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)
	require.Contains(t, w.Body.String(), `"version":"test"`)
}
