package validation

import (
	"fmt"

	"chansync/pkg/models"
)

// Validate checks one product snapshot against one channel's requirement set.
// Pure function: no side effects, no network calls, deterministic output for
// identical inputs.
//
// A product is valid when every required field is present and the completeness
// score reaches the requirement set's minimum. Recommended fields only produce
// warnings. A channel with no completeness rules in scope is treated as a
// configuration gap and is never valid.
func Validate(p *models.ProductSnapshot, req *models.ChannelRequirementSet, rules []models.CompletenessRule) models.ChannelValidationResult {
	result := models.ChannelValidationResult{
		ChannelCode:       req.ChannelCode,
		ChannelName:       req.ChannelName,
		MinScore:          req.MinCompletenessScore,
		Errors:            []models.FieldIssue{},
		Warnings:          []models.FieldIssue{},
		MissingFields:     []string{},
		RecommendedFields: []string{},
	}

	for _, field := range req.RequiredFields {
		if p.FieldPresent(field, req.ChannelCode) {
			continue
		}
		result.MissingFields = append(result.MissingFields, field)
		result.Errors = append(result.Errors, models.FieldIssue{
			Field:    field,
			Code:     models.IssueCodeFieldRequired,
			Severity: models.IssueSeverityError,
			Message:  fmt.Sprintf("field %q is required by channel %s", field, req.ChannelCode),
		})
	}

	for _, field := range req.RecommendedFields {
		if p.FieldPresent(field, req.ChannelCode) {
			continue
		}
		result.RecommendedFields = append(result.RecommendedFields, field)
		result.Warnings = append(result.Warnings, models.FieldIssue{
			Field:    field,
			Code:     models.IssueCodeFieldRecommended,
			Severity: models.IssueSeverityWarning,
			Message:  fmt.Sprintf("field %q is recommended by channel %s", field, req.ChannelCode),
		})
	}

	result.Score = Score(p, req.ChannelCode, rules)

	if ApplicableRuleCount(p, rules) == 0 {
		result.Errors = append(result.Errors, models.FieldIssue{
			Code:     models.IssueCodeNoRulesInScope,
			Severity: models.IssueSeverityError,
			Message:  fmt.Sprintf("no completeness rules configured for channel %s; configure rules before publishing", req.ChannelCode),
		})
	} else if result.Score < req.MinCompletenessScore {
		result.Errors = append(result.Errors, models.FieldIssue{
			Code:     models.IssueCodeScoreBelowMin,
			Severity: models.IssueSeverityError,
			Message:  fmt.Sprintf("completeness score %d is below the channel minimum %d", result.Score, req.MinCompletenessScore),
		})
	}

	result.IsValid = len(result.MissingFields) == 0 &&
		len(result.Errors) == 0 &&
		result.Score >= req.MinCompletenessScore

	return result
}
