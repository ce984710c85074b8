package lifecycletest

import (
	"context"

	"github.com/google/uuid"

	"agency-backend/internal/permissions"
)

// Gate is a fixed-answer permissions.Gate. A nil User means an anonymous caller.
type Gate struct {
	User  *permissions.Principal
	Admin bool
	Perms map[string]bool
}

var _ permissions.Gate = (*Gate)(nil)

func Anonymous() *Gate {
	return &Gate{}
}

func UserGate(id uuid.UUID) *Gate {
	return &Gate{User: &permissions.Principal{ID: id, Role: permissions.RoleClient}}
}

func AdminGate(id uuid.UUID) *Gate {
	return &Gate{User: &permissions.Principal{ID: id, Role: permissions.RoleAdmin}, Admin: true}
}

func (g *Gate) CurrentUser(context.Context) *permissions.Principal {
	return g.User
}

func (g *Gate) IsAdmin(context.Context) bool {
	return g.User != nil && g.Admin
}

func (g *Gate) HasPermission(_ context.Context, key string) bool {
	if g.User == nil {
		return false
	}
	return g.Admin || g.Perms[key]
}
