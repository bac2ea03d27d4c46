// Package authz composes credential validation and role resolution into route guards that do
// not depend on any HTTP framework.
package authz

import (
	"context"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
	appErrors "github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/pkg/errors"
)

// TokenValidator verifies a bearer credential.
type TokenValidator interface {
	Validate(raw string) (*models.Claims, error)
}

// RoleResolver looks up the stored role of an identity.
type RoleResolver interface {
	RoleOf(ctx context.Context, email string) (models.Role, error)
}

// Request is the per-request state a guard chain evaluates and enriches. It is never persisted.
type Request struct {
	// Credential is the raw bearer token, empty when the header was missing or malformed.
	Credential string
	// Target is the identity named by the request path or query, empty when absent.
	Target string

	Email string
	Name  string

	role         models.Role
	roleResolved bool
	mismatch     bool
}

// Authenticated reports whether a credential has been validated.
func (r *Request) Authenticated() bool {
	return r != nil && r.Email != ""
}

// Role returns the resolved role and whether it has been looked up.
func (r *Request) Role() (models.Role, bool) {
	return r.role, r.roleResolved
}

// Mismatch reports whether a degrading self-match guard saw a foreign target.
func (r *Request) Mismatch() bool {
	return r != nil && r.mismatch
}

// Guard is a precondition evaluated before a domain operation.
type Guard interface {
	Check(ctx context.Context, req *Request) error
}

// GuardFunc adapts a function into a Guard.
type GuardFunc func(ctx context.Context, req *Request) error

// Check implements Guard.
func (f GuardFunc) Check(ctx context.Context, req *Request) error {
	return f(ctx, req)
}

// Chain evaluates guards left to right and stops at the first failure.
func Chain(guards ...Guard) Guard {
	return GuardFunc(func(ctx context.Context, req *Request) error {
		for _, g := range guards {
			if err := g.Check(ctx, req); err != nil {
				return err
			}
		}
		return nil
	})
}

// Gate builds guards backed by a token validator and a role resolver.
type Gate struct {
	tokens TokenValidator
	roles  RoleResolver
}

// NewGate constructs a Gate.
func NewGate(tokens TokenValidator, roles RoleResolver) *Gate {
	return &Gate{tokens: tokens, roles: roles}
}

// Authenticated requires a valid credential and records its identity claim.
func (g *Gate) Authenticated() Guard {
	return GuardFunc(func(ctx context.Context, req *Request) error {
		if req.Authenticated() {
			return nil
		}
		if req.Credential == "" {
			return appErrors.ErrUnauthorized
		}
		claims, err := g.tokens.Validate(req.Credential)
		if err != nil {
			return appErrors.ErrUnauthorized
		}
		req.Email = claims.Email
		req.Name = claims.Name
		return nil
	})
}

// RequireRole requires the caller's stored role to equal expected. RoleUnset means a plain user.
func (g *Gate) RequireRole(expected models.Role) Guard {
	return GuardFunc(func(ctx context.Context, req *Request) error {
		if !req.Authenticated() {
			return appErrors.ErrUnauthorized
		}
		role, err := g.resolve(ctx, req)
		if err != nil {
			return err
		}
		if role != expected {
			return appErrors.ErrForbidden
		}
		return nil
	})
}

// PlainUser requires a caller without an elevated role.
func (g *Gate) PlainUser() Guard {
	return g.RequireRole(models.RoleUnset)
}

// Instructor requires the instructor role.
func (g *Gate) Instructor() Guard {
	return g.RequireRole(models.RoleInstructor)
}

// Admin requires the admin role.
func (g *Gate) Admin() Guard {
	return g.RequireRole(models.RoleAdmin)
}

func (g *Gate) resolve(ctx context.Context, req *Request) (models.Role, error) {
	if req.roleResolved {
		return req.role, nil
	}
	role, err := g.roles.RoleOf(ctx, req.Email)
	if err != nil {
		return models.RoleUnset, appErrors.FromError(err)
	}
	req.role = role
	req.roleResolved = true
	return role, nil
}

// MismatchMode selects how SelfMatch treats a target that differs from the caller.
type MismatchMode int

const (
	// MismatchReject fails with 401. Used by routes acting on behalf of the target.
	MismatchReject MismatchMode = iota
	// MismatchDegrade lets the request through flagged, so the handler answers negatively.
	MismatchDegrade
)

// SelfMatch requires the request target to equal the authenticated identity. An absent target passes.
func SelfMatch(mode MismatchMode) Guard {
	return GuardFunc(func(ctx context.Context, req *Request) error {
		if !req.Authenticated() {
			return appErrors.ErrUnauthorized
		}
		if req.Target == "" || req.Target == req.Email {
			return nil
		}
		if mode == MismatchDegrade {
			req.mismatch = true
			return nil
		}
		return appErrors.ErrUnauthorized
	})
}
