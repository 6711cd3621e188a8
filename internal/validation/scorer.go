package validation

import (
	"math"

	"chansync/pkg/models"
)

// Score computes the 0-100 completeness score of a product snapshot against a
// rule set. Pure function: no side effects, deterministic for identical inputs.
//
// Every applicable rule contributes its weight to the total; satisfied rules
// also contribute to the earned sum. Required-but-failed rules do not fail
// scoring here - blocking is the validator's job via missing fields. A product
// with zero applicable rules scores 0, not 100, so an unconfigured channel can
// never look "complete".
func Score(p *models.ProductSnapshot, channel models.ChannelCode, rules []models.CompletenessRule) int {
	earned, total := 0, 0
	for i := range rules {
		r := &rules[i]
		if !r.AppliesTo(p) {
			continue
		}
		total += r.Weight
		if p.FieldPresent(r.Field, channel) {
			earned += r.Weight
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(earned) / float64(total)))
}

// ApplicableRuleCount returns how many active rules are in scope for the
// product, so callers can distinguish "score 0" from "nothing configured"
func ApplicableRuleCount(p *models.ProductSnapshot, rules []models.CompletenessRule) int {
	n := 0
	for i := range rules {
		if rules[i].AppliesTo(p) && rules[i].Weight > 0 {
			n++
		}
	}
	return n
}
