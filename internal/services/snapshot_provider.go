package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"chansync/pkg/models"

	"github.com/google/uuid"
)

// SnapshotClient fetches read-only product snapshots from the catalog
// service's REST API. The engine never mutates products.
type SnapshotClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewSnapshotClient creates a snapshot client from CATALOG_SERVICE_URL and
// CATALOG_SERVICE_TOKEN environment variables
func NewSnapshotClient() *SnapshotClient {
	baseURL := os.Getenv("CATALOG_SERVICE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	return &SnapshotClient{
		baseURL: baseURL,
		token:   os.Getenv("CATALOG_SERVICE_TOKEN"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetProductSnapshot implements the snapshot provider contract of the sync
// orchestrator
func (c *SnapshotClient) GetProductSnapshot(ctx context.Context, tenantID, productID uuid.UUID) (*models.ProductSnapshot, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s/snapshot", c.baseURL, productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("X-Tenant-ID", tenantID.String())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch product snapshot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("product %s not found in catalog", productID)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("catalog service returned %d: %s", resp.StatusCode, string(body))
	}

	var snapshot models.ProductSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode product snapshot: %w", err)
	}
	return &snapshot, nil
}
