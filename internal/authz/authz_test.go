package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
)

type tokenStub struct {
	tokens map[string]string
}

func (s tokenStub) Validate(raw string) (*models.Claims, error) {
	email, ok := s.tokens[raw]
	if !ok {
		return nil, errors.New("bad token")
	}
	return &models.Claims{Email: email}, nil
}

type roleStub struct {
	roles map[string]models.Role
	err   error
	calls int
}

func (s *roleStub) RoleOf(ctx context.Context, email string) (models.Role, error) {
	s.calls++
	if s.err != nil {
		return models.RoleUnset, s.err
	}
	return s.roles[email], nil
}

func newGate(roles *roleStub) *Gate {
	return NewGate(tokenStub{tokens: map[string]string{
		"tok-a":     "a@x.com",
		"tok-b":     "b@x.com",
		"tok-admin": "root@x.com",
	}}, roles)
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	return appErr.Status
}

func TestAuthenticatedRejectsMissingAndInvalidCredentials(t *testing.T) {
	gate := newGate(&roleStub{})

	err := gate.Authenticated().Check(context.Background(), &Request{})
	assert.Equal(t, 401, statusOf(t, err))

	err = gate.Authenticated().Check(context.Background(), &Request{Credential: "forged"})
	assert.Equal(t, 401, statusOf(t, err))

	req := &Request{Credential: "tok-a"}
	require.NoError(t, gate.Authenticated().Check(context.Background(), req))
	assert.Equal(t, "a@x.com", req.Email)
}

func TestRoleGuards(t *testing.T) {
	roles := &roleStub{roles: map[string]models.Role{
		"b@x.com":    models.RoleInstructor,
		"root@x.com": models.RoleAdmin,
	}}
	gate := newGate(roles)
	ctx := context.Background()

	cases := []struct {
		name  string
		token string
		guard Guard
		want  int
	}{
		{"plain user passes user guard", "tok-a", gate.PlainUser(), 0},
		{"instructor rejected by user guard", "tok-b", gate.PlainUser(), 403},
		{"instructor passes instructor guard", "tok-b", gate.Instructor(), 0},
		{"plain user rejected by instructor guard", "tok-a", gate.Instructor(), 403},
		{"admin passes admin guard", "tok-admin", gate.Admin(), 0},
		{"instructor rejected by admin guard", "tok-b", gate.Admin(), 403},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Chain(gate.Authenticated(), tc.guard).Check(ctx, &Request{Credential: tc.token})
			if tc.want == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.want, statusOf(t, err))
		})
	}
}

func TestForbiddenMessageIsGeneric(t *testing.T) {
	gate := newGate(&roleStub{})
	err := Chain(gate.Authenticated(), gate.Admin()).Check(context.Background(), &Request{Credential: "tok-a"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "forbidden", appErr.Message)
}

func TestChainShortCircuitsBeforeRoleLookup(t *testing.T) {
	roles := &roleStub{}
	gate := newGate(roles)

	err := Chain(gate.Authenticated(), gate.PlainUser()).Check(context.Background(), &Request{Credential: "nope"})
	assert.Equal(t, 401, statusOf(t, err))
	assert.Zero(t, roles.calls)
}

func TestRoleResolvedOncePerRequest(t *testing.T) {
	roles := &roleStub{}
	gate := newGate(roles)

	req := &Request{Credential: "tok-a"}
	require.NoError(t, Chain(gate.Authenticated(), gate.PlainUser(), gate.PlainUser()).Check(context.Background(), req))
	assert.Equal(t, 1, roles.calls)
	role, resolved := req.Role()
	assert.True(t, resolved)
	assert.Equal(t, models.RoleUnset, role)
}

func TestRoleLookupUnavailableSurfacesRetryable(t *testing.T) {
	roles := &roleStub{err: appErrors.Clone(appErrors.ErrUpstreamUnavailable, "")}
	gate := newGate(roles)

	err := Chain(gate.Authenticated(), gate.PlainUser()).Check(context.Background(), &Request{Credential: "tok-a"})
	assert.Equal(t, 503, statusOf(t, err))
	assert.True(t, appErrors.FromError(err).Retryable())
}

func TestRoleGuardRequiresAuthentication(t *testing.T) {
	gate := newGate(&roleStub{})
	err := gate.Admin().Check(context.Background(), &Request{Credential: "tok-admin"})
	assert.Equal(t, 401, statusOf(t, err))
}

func TestSelfMatch(t *testing.T) {
	gate := newGate(&roleStub{})
	ctx := context.Background()

	req := &Request{Credential: "tok-a", Target: "a@x.com"}
	require.NoError(t, Chain(gate.Authenticated(), SelfMatch(MismatchReject)).Check(ctx, req))

	req = &Request{Credential: "tok-a"}
	require.NoError(t, Chain(gate.Authenticated(), SelfMatch(MismatchReject)).Check(ctx, req))

	req = &Request{Credential: "tok-a", Target: "b@x.com"}
	err := Chain(gate.Authenticated(), SelfMatch(MismatchReject)).Check(ctx, req)
	assert.Equal(t, 401, statusOf(t, err))

	req = &Request{Credential: "tok-a", Target: "b@x.com"}
	require.NoError(t, Chain(gate.Authenticated(), SelfMatch(MismatchDegrade)).Check(ctx, req))
	assert.True(t, req.Mismatch())
}
