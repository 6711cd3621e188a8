package validation

import (
	"testing"

	"chansync/pkg/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func rule(field string, weight int) models.CompletenessRule {
	return models.CompletenessRule{Field: field, Label: field, Weight: weight, IsActive: true}
}

func fullProduct() *models.ProductSnapshot {
	return &models.ProductSnapshot{
		ID:          uuid.New(),
		SKU:         "SKU-001",
		Name:        "Dipirona 500mg",
		Description: "Analgesic, 20 tablets",
		Brand:       "Medley",
		Barcode:     "7891234567890",
		Price:       decimal.NewFromFloat(12.90),
		Stock:       35,
		CategoryIDs: []uuid.UUID{uuid.New()},
		Media:       []models.MediaRef{{Type: "image", URL: "https://cdn.example.com/p1.jpg"}},
	}
}

func TestScore(t *testing.T) {
	full := fullProduct()
	empty := &models.ProductSnapshot{ID: uuid.New()}

	tests := []struct {
		name     string
		product  *models.ProductSnapshot
		rules    []models.CompletenessRule
		expected int
	}{
		{
			name:     "all rules satisfied",
			product:  full,
			rules:    []models.CompletenessRule{rule(models.FieldName, 3), rule(models.FieldPrice, 2)},
			expected: 100,
		},
		{
			name:     "no rules scores zero",
			product:  full,
			rules:    nil,
			expected: 0,
		},
		{
			name:     "nothing satisfied scores zero",
			product:  empty,
			rules:    []models.CompletenessRule{rule(models.FieldName, 1), rule(models.FieldPrice, 1)},
			expected: 0,
		},
		{
			name:    "weights drive the ratio",
			product: full,
			rules: []models.CompletenessRule{
				rule(models.FieldName, 3),
				rule(models.FieldDescription, 3),
				rule(models.FieldSEOTitle, 2), // not set on the product
			},
			expected: 75,
		},
		{
			name:    "inactive rules are skipped",
			product: full,
			rules: append([]models.CompletenessRule{
				rule(models.FieldName, 1),
			}, models.CompletenessRule{Field: models.FieldSEOTitle, Label: "seo", Weight: 99, IsActive: false}),
			expected: 100,
		},
		{
			name:    "zero-weight rules do not move the score",
			product: full,
			rules: []models.CompletenessRule{
				rule(models.FieldName, 5),
				rule(models.FieldSEOTitle, 0),
			},
			expected: 100,
		},
	}

	for _, test := range tests {
		got := Score(test.product, models.ChannelGeneric, test.rules)
		if got != test.expected {
			t.Errorf("%s: Score() = %d, expected %d", test.name, got, test.expected)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	p := fullProduct()
	rules := []models.CompletenessRule{
		rule(models.FieldName, 3),
		rule(models.FieldDescription, 2),
		rule(models.FieldImages, 2),
		rule(models.FieldSEOTitle, 1),
	}

	first := Score(p, models.ChannelAmazon, rules)
	for i := 0; i < 50; i++ {
		if got := Score(p, models.ChannelAmazon, rules); got != first {
			t.Fatalf("Score() = %d on run %d, expected %d every time", got, i, first)
		}
	}
}

func TestScoreCategoryScope(t *testing.T) {
	catID := uuid.New()
	inCat := fullProduct()
	inCat.CategoryIDs = []uuid.UUID{catID}
	outOfCat := fullProduct()

	scoped := models.CompletenessRule{
		Field: models.FieldSEOTitle, Label: "seo title", Weight: 5,
		CategoryScope: &catID, IsActive: true,
	}
	rules := []models.CompletenessRule{rule(models.FieldName, 5), scoped}

	// Out of scope: only the name rule counts, fully satisfied
	if got := Score(outOfCat, models.ChannelGeneric, rules); got != 100 {
		t.Errorf("out-of-scope Score() = %d, expected 100", got)
	}
	// In scope: the unsatisfied scoped rule halves the score
	if got := Score(inCat, models.ChannelGeneric, rules); got != 50 {
		t.Errorf("in-scope Score() = %d, expected 50", got)
	}
}

func TestScoreChannelScopedAttribute(t *testing.T) {
	p := fullProduct()
	p.Attributes = []models.AttributeValue{
		{Code: "bullet_points", Value: "5 bullets", ChannelCode: models.ChannelAmazon},
	}
	rules := []models.CompletenessRule{rule("bullet_points", 1)}

	if got := Score(p, models.ChannelAmazon, rules); got != 100 {
		t.Errorf("amazon Score() = %d, expected 100", got)
	}
	if got := Score(p, models.ChannelShopify, rules); got != 0 {
		t.Errorf("shopify Score() = %d, expected 0", got)
	}
}

func TestApplicableRuleCount(t *testing.T) {
	p := fullProduct()
	catID := uuid.New()
	rules := []models.CompletenessRule{
		rule(models.FieldName, 1),
		{Field: models.FieldBrand, Label: "brand", Weight: 1, IsActive: false},
		{Field: models.FieldSKU, Label: "sku", Weight: 0, IsActive: true},
		{Field: models.FieldStock, Label: "stock", Weight: 2, CategoryScope: &catID, IsActive: true},
	}

	if got := ApplicableRuleCount(p, rules); got != 1 {
		t.Errorf("ApplicableRuleCount() = %d, expected 1", got)
	}
}
