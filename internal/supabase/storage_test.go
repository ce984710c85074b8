package supabase_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agency-backend/internal/supabase"
)

func TestStoragePaths(t *testing.T) {
	estimateID := uuid.New()
	projectID := uuid.New()

	assert.Equal(t, "estimates/"+estimateID.String()+"/proof/receipt.pdf",
		supabase.ProofPath(estimateID, "receipt.pdf"))
	assert.Equal(t, "estimates/"+estimateID.String()+"/proof/evil.pdf",
		supabase.ProofPath(estimateID, "../../evil.pdf"))
	assert.Equal(t, "projects/"+projectID.String()+"/files/upload",
		supabase.ProjectFilePath(projectID, ""))
}

func TestStorageClient_GetPublicURL(t *testing.T) {
	client, err := supabase.NewStorageClient("https://abc.supabase.co/", "key", "agency")
	require.NoError(t, err)

	assert.Equal(t, "https://abc.supabase.co/storage/v1/object/public/agency/projects/p/my%20file.png",
		client.GetPublicURL("projects/p/my file.png"))
}

func TestStorageClient_UploadEstimateProof(t *testing.T) {
	estimateID := uuid.New()
	var gotPath, gotType, gotBody string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"Key":"agency/estimates"}`))
	}))
	defer server.Close()

	client, err := supabase.NewStorageClient(server.URL, "service-key", "agency")
	require.NoError(t, err)

	url, err := client.UploadEstimateProof(estimateID, "receipt.pdf", "application/pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/agency/estimates/"+estimateID.String()+"/proof/receipt.pdf", gotPath)
	assert.Equal(t, "application/pdf", gotType)
	assert.Equal(t, "%PDF", gotBody)
	assert.Equal(t, server.URL+"/storage/v1/object/public/agency/estimates/"+estimateID.String()+"/proof/receipt.pdf", url)
}

func TestStorageClient_UploadError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"statusCode":"403","error":"Unauthorized","message":"invalid signature"}`))
	}))
	defer server.Close()

	client, err := supabase.NewStorageClient(server.URL, "bad-key", "agency")
	require.NoError(t, err)

	_, err = client.UploadProjectFile(uuid.New(), "a.txt", "text/plain", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upload file")
}

func TestNewStorageClient_RequiresBucket(t *testing.T) {
	_, err := supabase.NewStorageClient("https://abc.supabase.co", "key", "")
	assert.Error(t, err)
}
