package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductStatus mirrors the catalog service's product lifecycle
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusEnabled  ProductStatus = "enabled"
	ProductStatusDisabled ProductStatus = "disabled"
	ProductStatusDeleted  ProductStatus = "deleted"
)

// AttributeValue is one typed attribute on a product snapshot.
// Locale and ChannelCode are empty for global values.
type AttributeValue struct {
	Code        string      `json:"code"`
	Value       string      `json:"value"`
	Locale      string      `json:"locale,omitempty"`
	ChannelCode ChannelCode `json:"channel_code,omitempty"`
}

// MediaRef points at one media asset owned by the media service
type MediaRef struct {
	Type      string `json:"type"` // image, video
	URL       string `json:"url"`
	Alt       string `json:"alt,omitempty"`
	SortOrder int    `json:"sort_order"`
}

// SEOFields carries the storefront metadata of a product
type SEOFields struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URLKey      string `json:"url_key,omitempty"`
}

// ProductSnapshot is the read-only product view consumed by validation and sync.
// It is owned by the external catalog service and never mutated here.
type ProductSnapshot struct {
	ID          uuid.UUID        `json:"id"`
	TenantID    uuid.UUID        `json:"tenant_id"`
	SKU         string           `json:"sku"`
	Status      ProductStatus    `json:"status"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Brand       string           `json:"brand"`
	Barcode     string           `json:"barcode"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"sale_price,omitempty"`
	Stock       int              `json:"stock"`
	Weight      string           `json:"weight"`     // grams
	Dimensions  string           `json:"dimensions"` // LxWxH cm
	CategoryIDs []uuid.UUID      `json:"category_ids"`
	FamilyCode  string           `json:"family_code,omitempty"`
	Attributes  []AttributeValue `json:"attributes"`
	Media       []MediaRef       `json:"media"`
	SEO         SEOFields        `json:"seo"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Core field refs understood by the validator alongside free-form attribute codes
const (
	FieldName           = "name"
	FieldDescription    = "description"
	FieldPrice          = "price"
	FieldSalePrice      = "sale_price"
	FieldSKU            = "sku"
	FieldBarcode        = "barcode"
	FieldBrand          = "brand"
	FieldStock          = "stock"
	FieldImages         = "images"
	FieldCategory       = "category"
	FieldWeight         = "weight"
	FieldDimensions     = "dimensions"
	FieldSEOTitle       = "seo_title"
	FieldSEODescription = "seo_description"
)

// Attribute returns the value of an attribute code, with channel-scoped values
// taking precedence over global ones
func (p *ProductSnapshot) Attribute(code string, channel ChannelCode) string {
	var global string
	for _, a := range p.Attributes {
		if a.Code != code {
			continue
		}
		if a.ChannelCode == channel && channel != "" {
			return a.Value
		}
		if a.ChannelCode == "" {
			global = a.Value
		}
	}
	return global
}

// FieldPresent reports whether a field ref resolves to a non-empty value on the
// snapshot. Unknown refs are looked up as attribute codes.
func (p *ProductSnapshot) FieldPresent(field string, channel ChannelCode) bool {
	switch field {
	case FieldName:
		return strings.TrimSpace(p.Name) != ""
	case FieldDescription:
		return strings.TrimSpace(p.Description) != ""
	case FieldPrice:
		return p.Price.IsPositive()
	case FieldSalePrice:
		return p.SalePrice != nil && p.SalePrice.IsPositive()
	case FieldSKU:
		return strings.TrimSpace(p.SKU) != ""
	case FieldBarcode:
		return strings.TrimSpace(p.Barcode) != ""
	case FieldBrand:
		return strings.TrimSpace(p.Brand) != ""
	case FieldStock:
		return p.Stock > 0
	case FieldImages:
		for _, m := range p.Media {
			if m.Type == "image" && m.URL != "" {
				return true
			}
		}
		return false
	case FieldCategory:
		return len(p.CategoryIDs) > 0
	case FieldWeight:
		return strings.TrimSpace(p.Weight) != ""
	case FieldDimensions:
		return strings.TrimSpace(p.Dimensions) != ""
	case FieldSEOTitle:
		return strings.TrimSpace(p.SEO.Title) != ""
	case FieldSEODescription:
		return strings.TrimSpace(p.SEO.Description) != ""
	default:
		return strings.TrimSpace(p.Attribute(field, channel)) != ""
	}
}

// InCategory reports whether the snapshot belongs to the given category
func (p *ProductSnapshot) InCategory(categoryID uuid.UUID) bool {
	for _, id := range p.CategoryIDs {
		if id == categoryID {
			return true
		}
	}
	return false
}
