package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthzUnauthenticated(t *testing.T) {
	s := NewServer("test-secret")
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCompileRequiresAuth(t *testing.T) {
	s := NewServer("test-secret")
	req := httptest.NewRequest(http.MethodPost, "/compile", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCompileWithValidToken(t *testing.T) {
	s := NewServer("test-secret")
	token, err := s.auth.GenerateToken("test-client")
	require.NoError(t, err)

	body, _ := json.Marshal(compileRequest{Source: "functio f() {}", Target: "fidelis"})
	req := httptest.NewRequest(http.MethodPost, "/compile", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp compileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Code)
}
