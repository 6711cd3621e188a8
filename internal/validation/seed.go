package validation

import (
	"chansync/pkg/models"
)

// DefaultCompletenessRules is the seed rule set inserted for a tenant at
// bootstrap when it has no rules yet. Seed data, not compiled-in logic: once
// inserted, operators edit the rows and the scorer only ever reads the store.
func DefaultCompletenessRules() []models.CompletenessRule {
	return []models.CompletenessRule{
		{Field: models.FieldName, Label: "Product name", IsRequired: true, Weight: 15},
		{Field: models.FieldDescription, Label: "Description", IsRequired: true, Weight: 10},
		{Field: models.FieldPrice, Label: "Price", IsRequired: true, Weight: 15},
		{Field: models.FieldSKU, Label: "SKU", IsRequired: true, Weight: 10},
		{Field: models.FieldImages, Label: "At least one image", IsRequired: true, Weight: 15},
		{Field: models.FieldStock, Label: "Stock on hand", Weight: 10},
		{Field: models.FieldBrand, Label: "Brand", Weight: 5},
		{Field: models.FieldBarcode, Label: "Barcode (EAN/GTIN)", Weight: 5},
		{Field: models.FieldCategory, Label: "Category assignment", Weight: 5},
		{Field: models.FieldWeight, Label: "Shipping weight", Weight: 3},
		{Field: models.FieldDimensions, Label: "Package dimensions", Weight: 2},
		{Field: models.FieldSEOTitle, Label: "SEO title", Weight: 3},
		{Field: models.FieldSEODescription, Label: "SEO description", Weight: 2},
	}
}

// DefaultRequirementSets returns the seed channel requirement sets for the
// channels the platform ships with. FamilyCode is empty: channel-wide.
func DefaultRequirementSets() []models.ChannelRequirementSet {
	return []models.ChannelRequirementSet{
		{
			ChannelCode: models.ChannelAmazon,
			ChannelName: "Amazon",
			RequiredFields: models.StringList{
				models.FieldName, models.FieldDescription, models.FieldPrice,
				models.FieldSKU, models.FieldImages, models.FieldBarcode, models.FieldBrand,
			},
			RecommendedFields:    models.StringList{models.FieldWeight, models.FieldDimensions, models.FieldStock},
			MinCompletenessScore: 80,
		},
		{
			ChannelCode: models.ChannelMercadoLivre,
			ChannelName: "Mercado Livre",
			RequiredFields: models.StringList{
				models.FieldName, models.FieldPrice, models.FieldSKU,
				models.FieldImages, models.FieldCategory,
			},
			RecommendedFields:    models.StringList{models.FieldDescription, models.FieldBrand, models.FieldBarcode},
			MinCompletenessScore: 70,
		},
		{
			ChannelCode: models.ChannelShopify,
			ChannelName: "Shopify",
			RequiredFields: models.StringList{
				models.FieldName, models.FieldPrice, models.FieldSKU,
			},
			RecommendedFields:    models.StringList{models.FieldDescription, models.FieldImages, models.FieldSEOTitle, models.FieldSEODescription},
			MinCompletenessScore: 60,
		},
		{
			ChannelCode: models.ChannelGeneric,
			ChannelName: "Generic channel",
			RequiredFields: models.StringList{
				models.FieldName, models.FieldPrice, models.FieldSKU,
			},
			RecommendedFields:    models.StringList{models.FieldDescription, models.FieldImages},
			MinCompletenessScore: 50,
		},
	}
}
