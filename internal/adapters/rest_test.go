package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"chansync/pkg/models"

	"github.com/google/uuid"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status   int
		expected ErrorClass
	}{
		{http.StatusTooManyRequests, ErrorClassRateLimited},
		{http.StatusUnauthorized, ErrorClassAuthExpired},
		{http.StatusForbidden, ErrorClassAuthExpired},
		{http.StatusNotFound, ErrorClassNotFound},
		{http.StatusGone, ErrorClassNotFound},
		{http.StatusBadRequest, ErrorClassValidationRejected},
		{http.StatusUnprocessableEntity, ErrorClassValidationRejected},
		{http.StatusConflict, ErrorClassValidationRejected},
		{http.StatusInternalServerError, ErrorClassUnknown},
		{http.StatusBadGateway, ErrorClassUnknown},
	}

	for _, test := range tests {
		if got := classifyStatus(test.status); got != test.expected {
			t.Errorf("classifyStatus(%d) = %s, expected %s", test.status, got, test.expected)
		}
	}
}

func testAdapter(serverURL string) *RESTAdapter {
	return &RESTAdapter{
		channel:    models.ChannelShopify,
		baseURL:    serverURL,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestRESTAdapterPush(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/channels/shopify/listings" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload pushPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(Result{ExternalID: "shopify-123", RemoteVersion: 1})
	}))
	defer server.Close()

	mapping := &models.Mapping{AccountID: uuid.New()}
	result, err := testAdapter(server.URL).Push(context.Background(), mapping, &models.ProductSnapshot{SKU: "SKU-1"})
	if err != nil {
		t.Fatalf("Push failed: %v", err)
	}
	if result.ExternalID != "shopify-123" {
		t.Errorf("ExternalID = %q, expected shopify-123", result.ExternalID)
	}
}

func TestRESTAdapterClassifiesGatewayErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	mapping := &models.Mapping{AccountID: uuid.New(), ExternalID: "ext-1"}
	_, err := testAdapter(server.URL).Pull(context.Background(), mapping)
	if err == nil {
		t.Fatal("expected Pull to fail")
	}
	var aerr *Error
	if !errors.As(err, &aerr) {
		t.Fatalf("error type = %T, expected *Error", err)
	}
	if aerr.Class != ErrorClassRateLimited {
		t.Errorf("Class = %s, expected rate_limited", aerr.Class)
	}
}

func TestRESTAdapterPullWithoutExternalID(t *testing.T) {
	mapping := &models.Mapping{AccountID: uuid.New()}
	_, err := testAdapter("http://unused").Pull(context.Background(), mapping)

	var aerr *Error
	if !errors.As(err, &aerr) || aerr.Class != ErrorClassNotFound {
		t.Errorf("err = %v, expected a not_found adapter error", err)
	}
}
