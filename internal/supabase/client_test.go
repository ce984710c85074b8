package supabase_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-backend/internal/config"
	"agency-backend/internal/permissions"
	"agency-backend/internal/supabase"
)

func TestClient_LookupUser(t *testing.T) {
	userID := uuid.New()
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			http.NotFound(w, r)
			return
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"` + userID.String() + `","email":"ana@example.com","app_metadata":{"role":"developer"}}`))
	}))
	defer server.Close()

	client, err := supabase.NewClient(&config.Config{
		SupabaseURL:            server.URL,
		SupabasePublishableKey: "anon-key",
	})
	require.NoError(t, err)

	profile, err := client.LookupUser(context.Background(), &permissions.Principal{ID: userID, Token: "user-token"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer user-token", gotAuth)
	assert.Equal(t, userID.String(), profile.ID)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, permissions.RoleDeveloper, profile.Role)
}

func TestClient_LookupUserWithoutToken(t *testing.T) {
	client, err := supabase.NewClient(&config.Config{
		SupabaseURL:            "http://localhost:54321",
		SupabasePublishableKey: "anon-key",
	})
	require.NoError(t, err)

	_, err = client.LookupUser(context.Background(), &permissions.Principal{ID: uuid.New()})
	assert.Error(t, err)
}
