package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/japezoa/bike-manager/internal/core/domain"
	"github.com/japezoa/bike-manager/internal/core/ports"
)

// Bucket names of the hosted storage service.
const (
	BikeImagesBucket           = "bike-images"
	IdentificationPhotosBucket = "identification-photos"
	PurchaseProofsBucket       = "purchase-proofs"
	WorkOrderPhotosBucket      = "work-order-photos"
)

// SupabaseStorage talks to the hosted object storage over its REST API with
// the service key. No retry logic: failures surface to the caller.
type SupabaseStorage struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	logger     ports.LoggerPort
}

func NewSupabaseStorage(baseURL, serviceKey string, logger ports.LoggerPort) *SupabaseStorage {
	return &SupabaseStorage{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     http.DefaultClient,
		logger:     logger,
	}
}

func (s *SupabaseStorage) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		s.logger.Error("Storage upload failed", map[string]interface{}{
			"bucket": bucket,
			"path":   path,
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return "", fmt.Errorf("%w: storage upload status %d", domain.ErrBackend, resp.StatusCode)
	}

	return s.PublicURL(bucket, path), nil
}

func (s *SupabaseStorage) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, bucket, path)
}

// Remove deletes a batch of objects. Best effort by contract: the caller
// logs and ignores failures.
func (s *SupabaseStorage) Remove(ctx context.Context, bucket string, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]interface{}{"prefixes": paths})
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}

	url := fmt.Sprintf("%s/storage/v1/object/%s", s.baseURL, bucket)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: storage remove status %d", domain.ErrBackend, resp.StatusCode)
	}
	return nil
}

// ObjectPath builds collision-free object names: {entityId}-{purpose}-{timestamp}.{ext}.
func ObjectPath(entityID, purpose, filename string, unixMillis int64) string {
	ext := "bin"
	if i := strings.LastIndex(filename, "."); i >= 0 && i < len(filename)-1 {
		ext = filename[i+1:]
	}
	if purpose == "" {
		return fmt.Sprintf("%s-%d.%s", entityID, unixMillis, ext)
	}
	return fmt.Sprintf("%s-%s-%d.%s", entityID, purpose, unixMillis, ext)
}
