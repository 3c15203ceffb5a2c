package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrUnauthorized means the token was rejected.
	ErrUnauthorized = errors.New("authorization failed")
	// ErrInvalidResponse means the authorization server answered with something other than JSON.
	ErrInvalidResponse = errors.New("invalid JSON response from authorization server")
	// ErrUnavailable means the authorization server could not be reached.
	ErrUnavailable = errors.New("authorization server unavailable")
)

// Verifier resolves the Authorization header of a request to a client id.
type Verifier interface {
	Verify(ctx context.Context, authHeader string) (clientID string, err error)
}

// RemoteVerifier delegates to an HTTP authorization service. The service receives
// {"token": <header>} and answers {"decodedToken": {"clientId": ...}}.
type RemoteVerifier struct {
	url    string
	client *http.Client
}

func NewRemoteVerifier(url string, client *http.Client) *RemoteVerifier {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &RemoteVerifier{url: url, client: client}
}

type remoteResponse struct {
	DecodedToken map[string]interface{} `json:"decodedToken"`
}

func (v *RemoteVerifier) Verify(ctx context.Context, authHeader string) (string, error) {
	body, err := json.Marshal(map[string]string{"token": authHeader})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var decoded remoteResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", ErrInvalidResponse
	}
	if len(decoded.DecodedToken) == 0 {
		return "", fmt.Errorf("%w: no decodedToken", ErrUnauthorized)
	}
	clientID, ok := decoded.DecodedToken["clientId"].(string)
	if !ok {
		return "", fmt.Errorf("%w: decodedToken has no clientId", ErrUnauthorized)
	}
	return clientID, nil
}

// JWTVerifier validates HS256 tokens locally and reads the clientId claim.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, authHeader string) (string, error) {
	raw := strings.TrimSpace(authHeader)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "Bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	clientID, ok := claims["clientId"].(string)
	if !ok || clientID == "" {
		return "", fmt.Errorf("%w: token has no clientId", ErrUnauthorized)
	}
	return clientID, nil
}
