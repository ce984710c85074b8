// Package permissions answers who is calling and what they may do. Handlers and the
// lifecycle manager only see the Gate interface, never the allowlists behind it.
package permissions

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleDeveloper = "developer"
	RoleClient    = "client"
)

const (
	PermProjectFilesWrite = "projects:files:write"
	PermProjectsReadAll   = "projects:read:all"
	PermAuditRead         = "audit:read"
)

// Principal is the authenticated caller.
type Principal struct {
	ID    uuid.UUID
	Email string
	Role  string
	// Token is the raw bearer token, kept for calls back to the auth provider.
	Token string
}

type Gate interface {
	CurrentUser(ctx context.Context) *Principal
	IsAdmin(ctx context.Context) bool
	HasPermission(ctx context.Context, key string) bool
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

var defaultRolePermissions = map[string][]string{
	RoleDeveloper: {PermProjectFilesWrite},
}

// RoleGate grants admin to allowlisted emails and user ids, and to principals whose
// role claim is "admin". Admins hold every permission.
type RoleGate struct {
	adminEmails     map[string]struct{}
	adminIDs        map[uuid.UUID]struct{}
	rolePermissions map[string][]string
}

var _ Gate = (*RoleGate)(nil)

func NewRoleGate(adminEmails, adminUserIDs []string) *RoleGate {
	g := &RoleGate{
		adminEmails:     make(map[string]struct{}),
		adminIDs:        make(map[uuid.UUID]struct{}),
		rolePermissions: defaultRolePermissions,
	}
	for _, email := range adminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			g.adminEmails[email] = struct{}{}
		}
	}
	for _, raw := range adminUserIDs {
		if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
			g.adminIDs[id] = struct{}{}
		}
	}
	return g
}

func (g *RoleGate) CurrentUser(ctx context.Context) *Principal {
	return PrincipalFrom(ctx)
}

func (g *RoleGate) IsAdmin(ctx context.Context) bool {
	p := PrincipalFrom(ctx)
	if p == nil {
		return false
	}
	if p.Role == RoleAdmin {
		return true
	}
	if _, ok := g.adminIDs[p.ID]; ok {
		return true
	}
	_, ok := g.adminEmails[strings.ToLower(p.Email)]
	return ok && p.Email != ""
}

func (g *RoleGate) HasPermission(ctx context.Context, key string) bool {
	if g.IsAdmin(ctx) {
		return true
	}
	p := PrincipalFrom(ctx)
	if p == nil {
		return false
	}
	for _, perm := range g.rolePermissions[p.Role] {
		if perm == key {
			return true
		}
	}
	return false
}
