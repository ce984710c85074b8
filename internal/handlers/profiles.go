package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"agency-backend/internal/models"
	"agency-backend/internal/permissions"
	"agency-backend/internal/supabase"
)

// UserDirectory looks the caller up at the auth provider.
type UserDirectory interface {
	LookupUser(ctx context.Context, p *permissions.Principal) (*supabase.UserProfile, error)
}

type ProfilesHandler struct {
	gate   permissions.Gate
	users  UserDirectory
	logger *zap.Logger
}

// NewProfilesHandler builds the /me handler. users may be nil, in which case the
// profile comes from the token alone.
func NewProfilesHandler(gate permissions.Gate, users UserDirectory, logger *zap.Logger) *ProfilesHandler {
	return &ProfilesHandler{
		gate:   gate,
		users:  users,
		logger: logger,
	}
}

// GetMe godoc
// @Summary     Current user
// @Description Returns the caller's id, email, role and whether they are an admin.
// @Tags        profiles
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.MeResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /me [get]
func (h *ProfilesHandler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()
	p := h.gate.CurrentUser(ctx)
	if p == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	resp := models.MeResponse{
		ID:      p.ID.String(),
		Email:   p.Email,
		Role:    p.Role,
		IsAdmin: h.gate.IsAdmin(ctx),
	}

	if h.users != nil {
		profile, err := h.users.LookupUser(ctx, p)
		if err != nil {
			// The token already proved who the caller is.
			h.logger.Warn("user lookup failed", zap.String("user_id", p.ID.String()), zap.Error(err))
		} else {
			if profile.Email != "" {
				resp.Email = profile.Email
			}
			if profile.Role != "" {
				resp.Role = profile.Role
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}
