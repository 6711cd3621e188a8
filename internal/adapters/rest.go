package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"chansync/pkg/models"
)

// RESTAdapter talks to a channel gateway service that fronts the actual
// marketplace API. One instance serves one channel code; the gateway resolves
// the account credentials from the credentials reference it receives.
type RESTAdapter struct {
	channel    models.ChannelCode
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewRESTAdapter creates an adapter for one channel backed by the gateway
// configured via CHANNEL_GATEWAY_URL and CHANNEL_GATEWAY_TOKEN.
func NewRESTAdapter(channel models.ChannelCode) *RESTAdapter {
	baseURL := os.Getenv("CHANNEL_GATEWAY_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8091"
	}

	return &RESTAdapter{
		channel: channel,
		baseURL: baseURL,
		token:   os.Getenv("CHANNEL_GATEWAY_TOKEN"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RegisterDefaults registers a REST adapter for every supported channel
func RegisterDefaults(registry *Registry) {
	for _, code := range []models.ChannelCode{
		models.ChannelAmazon,
		models.ChannelMercadoLivre,
		models.ChannelShopify,
		models.ChannelGeneric,
	} {
		registry.Register(code, NewRESTAdapter(code))
	}
}

type pushPayload struct {
	AccountID      string                  `json:"account_id"`
	CredentialsRef string                  `json:"credentials_ref,omitempty"`
	ExternalID     string                  `json:"external_id,omitempty"`
	Product        *models.ProductSnapshot `json:"product"`
}

// Push creates or updates the listing through the gateway
func (a *RESTAdapter) Push(ctx context.Context, mapping *models.Mapping, product *models.ProductSnapshot) (*Result, error) {
	payload := pushPayload{
		AccountID:  mapping.AccountID.String(),
		ExternalID: mapping.ExternalID,
		Product:    product,
	}

	var result Result
	if err := a.do(ctx, http.MethodPut, fmt.Sprintf("/channels/%s/listings", a.channel), payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Pull fetches the current remote listing state
func (a *RESTAdapter) Pull(ctx context.Context, mapping *models.Mapping) (*RemoteSnapshot, error) {
	if mapping.ExternalID == "" {
		return nil, NewError(ErrorClassNotFound, "mapping has no external listing ID", nil)
	}

	var snapshot RemoteSnapshot
	path := fmt.Sprintf("/channels/%s/listings/%s?account_id=%s", a.channel, mapping.ExternalID, mapping.AccountID)
	if err := a.do(ctx, http.MethodGet, path, nil, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// Delete removes or deactivates the listing
func (a *RESTAdapter) Delete(ctx context.Context, mapping *models.Mapping) (*Result, error) {
	if mapping.ExternalID == "" {
		return &Result{}, nil
	}

	var result Result
	path := fmt.Sprintf("/channels/%s/listings/%s?account_id=%s", a.channel, mapping.ExternalID, mapping.AccountID)
	if err := a.do(ctx, http.MethodDelete, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RESTAdapter) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return NewError(ErrorClassUnknown, "failed to encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return NewError(ErrorClassUnknown, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return NewError(ErrorClassUnknown, "gateway request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return NewError(classifyStatus(resp.StatusCode),
			fmt.Sprintf("gateway returned %d: %s", resp.StatusCode, string(data)), nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return NewError(ErrorClassUnknown, "failed to decode response", err)
		}
	}
	return nil
}

func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimited
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorClassAuthExpired
	case status == http.StatusNotFound || status == http.StatusGone:
		return ErrorClassNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity || status == http.StatusConflict:
		return ErrorClassValidationRejected
	}
	return ErrorClassUnknown
}
