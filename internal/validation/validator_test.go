package validation

import (
	"testing"

	"chansync/pkg/models"
)

func requirementSet(channel models.ChannelCode, required, recommended []string, minScore int) *models.ChannelRequirementSet {
	return &models.ChannelRequirementSet{
		ChannelCode:          channel,
		ChannelName:          string(channel),
		RequiredFields:       models.StringList(required),
		RecommendedFields:    models.StringList(recommended),
		MinCompletenessScore: minScore,
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	p := fullProduct()
	p.Barcode = ""
	req := requirementSet(models.ChannelAmazon,
		[]string{models.FieldName, models.FieldPrice, models.FieldBarcode}, nil, 0)
	rules := []models.CompletenessRule{rule(models.FieldName, 1)}

	result := Validate(p, req, rules)

	if result.IsValid {
		t.Error("expected result to be invalid")
	}
	if len(result.MissingFields) != 1 || result.MissingFields[0] != models.FieldBarcode {
		t.Errorf("MissingFields = %v, expected [barcode]", result.MissingFields)
	}
	if len(result.Errors) != 1 || result.Errors[0].Code != models.IssueCodeFieldRequired {
		t.Errorf("Errors = %v, expected one field_required issue", result.Errors)
	}
}

func TestValidateRecommendedFieldIsOnlyWarning(t *testing.T) {
	p := fullProduct()
	req := requirementSet(models.ChannelShopify,
		[]string{models.FieldName}, []string{models.FieldSEOTitle}, 0)
	rules := []models.CompletenessRule{rule(models.FieldName, 1)}

	result := Validate(p, req, rules)

	if !result.IsValid {
		t.Errorf("expected valid result, got errors %v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Code != models.IssueCodeFieldRecommended {
		t.Errorf("Warnings = %v, expected one field_recommended issue", result.Warnings)
	}
	if len(result.RecommendedFields) != 1 || result.RecommendedFields[0] != models.FieldSEOTitle {
		t.Errorf("RecommendedFields = %v, expected [seo_title]", result.RecommendedFields)
	}
}

func TestValidateNoRulesInScopeFailsClosed(t *testing.T) {
	p := fullProduct()
	req := requirementSet(models.ChannelMercadoLivre, []string{models.FieldName}, nil, 0)

	result := Validate(p, req, nil)

	if result.IsValid {
		t.Error("expected unconfigured channel to be invalid")
	}
	if result.Score != 0 {
		t.Errorf("Score = %d, expected 0", result.Score)
	}
	found := false
	for _, issue := range result.Errors {
		if issue.Code == models.IssueCodeNoRulesInScope {
			found = true
		}
	}
	if !found {
		t.Errorf("Errors = %v, expected a completeness_rules_missing issue", result.Errors)
	}
}

func TestValidateScoreBelowMinimum(t *testing.T) {
	p := fullProduct()
	req := requirementSet(models.ChannelAmazon, []string{models.FieldName}, nil, 80)
	rules := []models.CompletenessRule{
		rule(models.FieldName, 1),
		rule(models.FieldSEOTitle, 1),
		rule(models.FieldSEODescription, 1),
		rule(models.FieldWeight, 1),
	}

	result := Validate(p, req, rules)

	if result.IsValid {
		t.Error("expected result below minimum score to be invalid")
	}
	if result.Score != 25 {
		t.Errorf("Score = %d, expected 25", result.Score)
	}
	found := false
	for _, issue := range result.Errors {
		if issue.Code == models.IssueCodeScoreBelowMin {
			found = true
		}
	}
	if !found {
		t.Errorf("Errors = %v, expected a score_below_minimum issue", result.Errors)
	}
}

func TestValidateFullyCompliantProduct(t *testing.T) {
	p := fullProduct()
	req := requirementSet(models.ChannelAmazon,
		[]string{models.FieldName, models.FieldPrice, models.FieldSKU}, nil, 80)
	rules := []models.CompletenessRule{
		rule(models.FieldName, 3),
		rule(models.FieldDescription, 2),
		rule(models.FieldPrice, 3),
		rule(models.FieldImages, 2),
	}

	result := Validate(p, req, rules)

	if !result.IsValid {
		t.Errorf("expected valid result, got errors %v missing %v", result.Errors, result.MissingFields)
	}
	if result.Score != 100 {
		t.Errorf("Score = %d, expected 100", result.Score)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, expected none", result.Warnings)
	}
}

func TestDefaultRequirementSetsCoverAllChannels(t *testing.T) {
	sets := DefaultRequirementSets()
	seen := make(map[models.ChannelCode]bool)
	for _, s := range sets {
		seen[s.ChannelCode] = true
		if s.MinCompletenessScore < 0 || s.MinCompletenessScore > 100 {
			t.Errorf("channel %s has min score %d outside 0-100", s.ChannelCode, s.MinCompletenessScore)
		}
	}
	for _, code := range []models.ChannelCode{
		models.ChannelAmazon, models.ChannelMercadoLivre, models.ChannelShopify, models.ChannelGeneric,
	} {
		if !seen[code] {
			t.Errorf("no default requirement set for channel %s", code)
		}
	}
}
