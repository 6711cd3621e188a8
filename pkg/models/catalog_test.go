package models

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFieldPresent(t *testing.T) {
	salePrice := decimal.NewFromFloat(9.90)
	p := &ProductSnapshot{
		SKU:       "SKU-1",
		Name:      "Vitamin C",
		Price:     decimal.NewFromFloat(19.90),
		SalePrice: &salePrice,
		Stock:     0,
		Media: []MediaRef{
			{Type: "video", URL: "https://cdn.example.com/v.mp4"},
		},
		SEO: SEOFields{Title: "Vitamin C 1g"},
	}

	tests := []struct {
		field    string
		expected bool
	}{
		{FieldName, true},
		{FieldSKU, true},
		{FieldPrice, true},
		{FieldSalePrice, true},
		{FieldDescription, false},
		{FieldStock, false}, // zero stock is not sellable
		{FieldImages, false}, // video does not satisfy the images field
		{FieldSEOTitle, true},
		{FieldSEODescription, false},
		{FieldBarcode, false},
	}

	for _, test := range tests {
		if got := p.FieldPresent(test.field, ChannelGeneric); got != test.expected {
			t.Errorf("FieldPresent(%q) = %v, expected %v", test.field, got, test.expected)
		}
	}
}

func TestAttributeChannelPrecedence(t *testing.T) {
	p := &ProductSnapshot{
		Attributes: []AttributeValue{
			{Code: "title_suffix", Value: "global"},
			{Code: "title_suffix", Value: "amazon only", ChannelCode: ChannelAmazon},
		},
	}

	if got := p.Attribute("title_suffix", ChannelAmazon); got != "amazon only" {
		t.Errorf("Attribute(amazon) = %q, expected channel-scoped value", got)
	}
	if got := p.Attribute("title_suffix", ChannelShopify); got != "global" {
		t.Errorf("Attribute(shopify) = %q, expected global fallback", got)
	}
	if got := p.Attribute("missing", ChannelAmazon); got != "" {
		t.Errorf("Attribute(missing) = %q, expected empty", got)
	}
}
