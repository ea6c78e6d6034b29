//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/2beens/gymtracker/internal/users"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestUsers_RegisterAndProfile() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	user, token := s.registerUser(ctx)
	assert.Equal(t, users.RoleCustomer, user.Role)
	assert.True(t, user.IsActive)
	assert.Equal(t, users.FitnessGoal("general_fitness"), user.FitnessGoal)

	// same email again, with an upper-cased domain
	at := strings.LastIndex(user.Email, "@")
	sameEmail := "  " + user.Email[:at+1] + strings.ToUpper(user.Email[at+1:])
	password := "another-pass-1"
	var errResp errorResponse
	s.do(ctx, http.MethodPost, "/users/register", "", users.RegisterRequest{
		Email:           sameEmail,
		Password:        password,
		PasswordConfirm: password,
		Name:            gofakeit.Name(),
	}, http.StatusConflict, &errResp)
	assert.NotEmpty(t, errResp.Error)

	s.do(ctx, http.MethodPost, "/users/register", "", users.RegisterRequest{
		Email:           gofakeit.Email(),
		Password:        password,
		PasswordConfirm: password + "x",
		Name:            gofakeit.Name(),
	}, http.StatusBadRequest, &errResp)
	assert.Equal(t, "Passwords do not match", errResp.Fields["password_confirm"])

	var profile users.User
	s.do(ctx, http.MethodGet, "/users/profile", token, nil, http.StatusOK, &profile)
	assert.Equal(t, user.ID, profile.ID)

	age := 31
	s.do(ctx, http.MethodPut, "/users/profile", token, map[string]any{
		"age":          age,
		"fitness_goal": "muscle_gain",
	}, http.StatusOK, &profile)
	require.NotNil(t, profile.Age)
	assert.Equal(t, age, *profile.Age)
	assert.Equal(t, users.FitnessGoal("muscle_gain"), profile.FitnessGoal)
	assert.Equal(t, user.Name, profile.Name)

	s.do(ctx, http.MethodGet, "/users/profile", "", nil, http.StatusUnauthorized, nil)
}

func (s *IntegrationTestSuite) TestUsers_ChangePassword() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	_, token := s.registerUser(ctx)

	var errResp errorResponse
	s.do(ctx, http.MethodPost, "/users/change-password", token, map[string]string{
		"old_password":         "definitely-wrong",
		"new_password":         "new-password-1",
		"new_password_confirm": "new-password-1",
	}, http.StatusBadRequest, &errResp)
	assert.Equal(t, "Current password is incorrect", errResp.Fields["old_password"])
}

func (s *IntegrationTestSuite) TestUsers_AdminListAndBlock() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	t := s.T()

	customer, customerToken := s.registerUser(ctx)
	admin, adminToken := s.registerUser(ctx, "admin")

	s.do(ctx, http.MethodGet, "/users", customerToken, nil, http.StatusForbidden, nil)

	var listed []users.User
	s.do(ctx, http.MethodGet, "/users?search="+url.QueryEscape(customer.Email), adminToken, nil, http.StatusOK, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, customer.ID, listed[0].ID)

	var msg struct {
		Message string `json:"message"`
	}
	s.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%s/block", customer.ID), adminToken, nil, http.StatusOK, &msg)
	assert.Equal(t, "User blocked successfully", msg.Message)

	s.do(ctx, http.MethodGet, "/users?is_active=false&search="+url.QueryEscape(customer.Email), adminToken, nil, http.StatusOK, &listed)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].IsActive)

	s.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%s/block", customer.ID), adminToken, nil, http.StatusOK, &msg)
	assert.Equal(t, "User unblocked successfully", msg.Message)

	s.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%s/block", admin.ID), adminToken, nil, http.StatusBadRequest, nil)

	var stats users.Stats
	s.do(ctx, http.MethodGet, "/users/stats", adminToken, nil, http.StatusOK, &stats)
	assert.GreaterOrEqual(t, stats.TotalUsers, 2)
}
