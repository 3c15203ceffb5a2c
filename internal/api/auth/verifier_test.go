package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteVerifier(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantClient string
		wantErr    error
	}{
		{
			name:       "authorized",
			status:     http.StatusOK,
			body:       `{"decodedToken": {"clientId": "client-42", "role": "device"}}`,
			wantClient: "client-42",
		},
		{name: "rejected", status: http.StatusForbidden, body: `{"error": "nope"}`, wantErr: ErrUnauthorized},
		{name: "not json", status: http.StatusOK, body: `<html>ok</html>`, wantErr: ErrInvalidResponse},
		{name: "no decoded token", status: http.StatusOK, body: `{"decodedToken": null}`, wantErr: ErrUnauthorized},
		{name: "no client id", status: http.StatusOK, body: `{"decodedToken": {"sub": "x"}}`, wantErr: ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))
				var payload map[string]string
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
				assert.Equal(t, "Bearer abc", payload["token"])

				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			clientID, err := NewRemoteVerifier(server.URL, nil).Verify(context.Background(), "Bearer abc")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantClient, clientID)
		})
	}
}

func TestRemoteVerifier_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := NewRemoteVerifier(url, nil).Verify(context.Background(), "Bearer abc")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTVerifier(t *testing.T) {
	v := NewJWTVerifier("s3cret")

	tests := []struct {
		name       string
		header     string
		wantClient string
		wantErr    bool
	}{
		{name: "bearer token", header: "Bearer " + sign(t, "s3cret", jwt.MapClaims{"clientId": "c1"}), wantClient: "c1"},
		{name: "bare token", header: sign(t, "s3cret", jwt.MapClaims{"clientId": "c2"}), wantClient: "c2"},
		{name: "wrong secret", header: "Bearer " + sign(t, "other", jwt.MapClaims{"clientId": "c1"}), wantErr: true},
		{name: "missing client id", header: "Bearer " + sign(t, "s3cret", jwt.MapClaims{"sub": "c1"}), wantErr: true},
		{name: "garbage", header: "Bearer not-a-jwt", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clientID, err := v.Verify(context.Background(), tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantClient, clientID)
		})
	}
}
