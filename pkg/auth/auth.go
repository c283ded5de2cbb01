// Package auth carries the authenticated principal through request contexts.
// Authentication itself happens upstream (gateway or proxy); this package only
// trusts the identity headers it forwards.
package auth

import (
	"context"
	"slices"
)

// Well-known logins and authorities.
const (
	Anonymous = "anonymousUser"
	System    = "system"
	RoleAdmin = "ROLE_ADMIN"
	RoleUser  = "ROLE_USER"
)

// Principal identifies the caller of an operation.
type Principal struct {
	Login       string   `json:"login"`
	Authorities []string `json:"authorities"`
}

// HasAuthority reports whether p holds authority.
func (p Principal) HasAuthority(authority string) bool {
	return slices.Contains(p.Authorities, authority)
}

// IsAdmin reports whether p holds RoleAdmin.
func (p Principal) IsAdmin() bool {
	return p.HasAuthority(RoleAdmin)
}

type principalKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal in ctx, or the anonymous principal when none is set.
func FromContext(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Principal{Login: Anonymous}
}

// SystemContext returns a context for background work performed on behalf of the service.
func SystemContext(ctx context.Context) context.Context {
	return WithPrincipal(ctx, Principal{Login: System, Authorities: []string{RoleAdmin}})
}
