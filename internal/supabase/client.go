package supabase

import (
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"

	"agency-backend/internal/config"
	"agency-backend/internal/permissions"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}

// UserProfile is the auth provider's view of a user.
type UserProfile struct {
	ID    string
	Email string
	Role  string
}

// LookupUser asks Supabase Auth who the bearer of p.Token is. It fills in the email and
// app_metadata role when the JWT did not carry them.
func (c *Client) LookupUser(_ context.Context, p *permissions.Principal) (*UserProfile, error) {
	if p == nil || p.Token == "" {
		return nil, fmt.Errorf("no access token for user lookup")
	}

	resp, err := c.Supabase.Auth.WithToken(p.Token).GetUser()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	profile := &UserProfile{
		ID:    resp.ID.String(),
		Email: resp.Email,
	}
	if role, ok := resp.AppMetadata["role"].(string); ok {
		profile.Role = role
	}
	return profile, nil
}
