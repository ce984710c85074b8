package supabase

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
	// storage-go keeps per-upload options in headers shared by the whole client.
	mu sync.Mutex
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimRight(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required for storage")
	}
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// ProofPath is where an estimate's payment proof is stored.
func ProofPath(estimateID uuid.UUID, filename string) string {
	return fmt.Sprintf("estimates/%s/proof/%s", estimateID.String(), cleanName(filename))
}

// ProjectFilePath is where a project attachment is stored.
func ProjectFilePath(projectID uuid.UUID, filename string) string {
	return fmt.Sprintf("projects/%s/files/%s", projectID.String(), cleanName(filename))
}

// UploadEstimateProof stores a payment proof and returns its public URL.
func (s *StorageClient) UploadEstimateProof(estimateID uuid.UUID, filename, contentType string, data io.Reader) (string, error) {
	return s.upload(ProofPath(estimateID, filename), contentType, data)
}

// UploadProjectFile stores a project attachment and returns its public URL.
func (s *StorageClient) UploadProjectFile(projectID uuid.UUID, filename, contentType string, data io.Reader) (string, error) {
	return s.upload(ProjectFilePath(projectID, filename), contentType, data)
}

func (s *StorageClient) upload(storagePath, contentType string, data io.Reader) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	upsert := true

	s.mu.Lock()
	_, err := s.client.UploadFile(s.bucket, storagePath, data, storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return s.GetPublicURL(storagePath), nil
}

func (s *StorageClient) GetPublicURL(storagePath string) string {
	escaped := make([]string, 0, 4)
	for _, seg := range strings.Split(storagePath, "/") {
		escaped = append(escaped, url.PathEscape(seg))
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, strings.Join(escaped, "/"))
}

func (s *StorageClient) DeleteFile(storagePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.client.RemoveFile(s.bucket, []string{storagePath})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func cleanName(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "upload"
	}
	return name
}
