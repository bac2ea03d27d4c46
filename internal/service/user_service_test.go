package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/authz"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
)

func newUserFixture() (*ledger, *UserService) {
	l := newLedger()
	roles := NewRoleService(l, time.Second, nil)
	return l, NewUserService(l, roles, nil, nil, nil)
}

func TestRegisterIsIdempotent(t *testing.T) {
	_, svc := newUserFixture()
	ctx := context.Background()

	first, err := svc.Register(ctx, dto.RegisterUserRequest{Email: "a@x.com", Name: "Ada"})
	require.NoError(t, err)
	assert.True(t, first.Inserted)
	assert.NotEmpty(t, first.InsertedID)

	second, err := svc.Register(ctx, dto.RegisterUserRequest{Email: "a@x.com", Name: "Ada again"})
	require.NoError(t, err)
	assert.False(t, second.Inserted)
	assert.Equal(t, MessageUserExists, second.Message)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ada", users[0].Name)
	assert.False(t, users[0].Role.IsSet())

	_, err = svc.Register(ctx, dto.RegisterUserRequest{Email: "bad"})
	assert.Equal(t, 400, appStatus(err))
}

func TestGetByEmail(t *testing.T) {
	_, svc := newUserFixture()
	ctx := context.Background()

	user, err := svc.GetByEmail(ctx, "ghost@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = svc.Register(ctx, dto.RegisterUserRequest{Email: "a@x.com", Name: "Ada"})
	require.NoError(t, err)

	user, err = svc.GetByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Ada", user.Name)
}

func TestPromotionChangesGuards(t *testing.T) {
	l, svc := newUserFixture()
	ctx := context.Background()
	tokens := newTokenService("secret")
	gate := authz.NewGate(tokens, NewRoleService(l, time.Second, nil))

	res, err := svc.Register(ctx, dto.RegisterUserRequest{Email: "b@x.com", Name: "Bea"})
	require.NoError(t, err)
	token, err := tokens.Issue(ctx, dto.IssueTokenRequest{Email: "b@x.com"})
	require.NoError(t, err)

	plain := authz.Chain(gate.Authenticated(), gate.PlainUser())
	instructor := authz.Chain(gate.Authenticated(), gate.Instructor())

	require.NoError(t, plain.Check(ctx, &authz.Request{Credential: token.Token}))
	assert.Equal(t, 403, appStatus(instructor.Check(ctx, &authz.Request{Credential: token.Token})))

	promoted, err := svc.SetRole(ctx, res.InsertedID, dto.UpdateRoleRequest{Role: "instructor"}, "admin@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleInstructor, promoted.Role)

	ok, err := svc.HasRole(ctx, "b@x.com", models.RoleInstructor)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasRole(ctx, "b@x.com", models.RoleAdmin)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 403, appStatus(plain.Check(ctx, &authz.Request{Credential: token.Token})))
	require.NoError(t, instructor.Check(ctx, &authz.Request{Credential: token.Token}))
}

func TestSetRoleErrors(t *testing.T) {
	_, svc := newUserFixture()
	ctx := context.Background()

	_, err := svc.SetRole(ctx, unknownID, dto.UpdateRoleRequest{Role: "admin"}, "admin@x.com")
	assert.Equal(t, 404, appStatus(err))

	_, err = svc.SetRole(ctx, unknownID, dto.UpdateRoleRequest{Role: "owner"}, "admin@x.com")
	assert.Equal(t, 400, appStatus(err))

	_, err = svc.SetRole(ctx, "not-a-uuid", dto.UpdateRoleRequest{Role: "admin"}, "admin@x.com")
	assert.Equal(t, 404, appStatus(err))
}
