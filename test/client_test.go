//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/2beens/gymtracker/internal/auth"
	"github.com/2beens/gymtracker/internal/users"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// do sends a JSON request and decodes the response body into out when out is not nil.
func (s *IntegrationTestSuite) do(
	ctx context.Context,
	method, path, token string,
	body any,
	wantStatus int,
	out any,
) {
	t := s.T()
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, wantStatus, resp.StatusCode, "%s %s: %s", method, path, string(respBytes))

	if out != nil {
		require.NoError(t, json.Unmarshal(respBytes, out), string(respBytes))
	}
}

func (s *IntegrationTestSuite) token(userID uuid.UUID, caps ...string) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, auth.Claims{
		Caps: caps,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(testJWTSecret)
	require.NoError(s.T(), err)
	return token
}

// registerUser creates a fresh customer and returns it with a signed token.
func (s *IntegrationTestSuite) registerUser(ctx context.Context, caps ...string) (*users.User, string) {
	password := fmt.Sprintf("pw-%s", gofakeit.Password(true, true, true, false, false, 12))
	req := users.RegisterRequest{
		Email:           gofakeit.Email(),
		Password:        password,
		PasswordConfirm: password,
		Name:            gofakeit.Name(),
	}

	var user users.User
	s.do(ctx, http.MethodPost, "/users/register", "", req, http.StatusCreated, &user)
	require.NotEqual(s.T(), uuid.Nil, user.ID)

	return &user, s.token(user.ID, caps...)
}
