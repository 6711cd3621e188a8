package adapters

import (
	"testing"

	"chansync/pkg/models"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	if _, err := registry.Get(models.ChannelAmazon); err == nil {
		t.Error("expected Get on an empty registry to fail")
	}

	adapter := NewRESTAdapter(models.ChannelAmazon)
	registry.Register(models.ChannelAmazon, adapter)

	got, err := registry.Get(models.ChannelAmazon)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != Adapter(adapter) {
		t.Error("Get returned a different adapter than registered")
	}
}

func TestRegisterDefaults(t *testing.T) {
	registry := NewRegistry()
	RegisterDefaults(registry)

	for _, code := range []models.ChannelCode{
		models.ChannelAmazon, models.ChannelMercadoLivre, models.ChannelShopify, models.ChannelGeneric,
	} {
		if _, err := registry.Get(code); err != nil {
			t.Errorf("no default adapter registered for %s: %v", code, err)
		}
	}
}
