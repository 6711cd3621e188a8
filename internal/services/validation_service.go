package services

import (
	"context"
	"errors"
	"fmt"

	"chansync/internal/repo"
	"chansync/internal/sync"
	"chansync/internal/validation"
	"chansync/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ValidationService answers the operator-facing readiness queries. It always
// returns structured results, never throws validation findings as errors, so
// the UI can render partial readiness.
type ValidationService struct {
	snapshots    sync.SnapshotProvider
	requirements *RequirementService
	accounts     *repo.ChannelAccountRepository
}

// NewValidationService creates a validation service
func NewValidationService(snapshots sync.SnapshotProvider, requirements *RequirementService, accounts *repo.ChannelAccountRepository) *ValidationService {
	return &ValidationService{
		snapshots:    snapshots,
		requirements: requirements,
		accounts:     accounts,
	}
}

// ValidateForChannel validates one product against one channel
func (s *ValidationService) ValidateForChannel(ctx context.Context, tenantID, productID uuid.UUID, channel models.ChannelCode) (*models.ChannelValidationResult, error) {
	product, err := s.snapshots.GetProductSnapshot(ctx, tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("load product snapshot: %w", err)
	}
	return s.validateSnapshot(ctx, tenantID, product, channel)
}

// ValidateForAllChannels validates one product against every channel the
// tenant has configured. Pointwise: one channel's failure never affects
// another's result. Channels without a requirement set report a
// configuration-gap result instead of being silently skipped.
func (s *ValidationService) ValidateForAllChannels(ctx context.Context, tenantID, productID uuid.UUID) (map[models.ChannelCode]models.ChannelValidationResult, error) {
	product, err := s.snapshots.GetProductSnapshot(ctx, tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("load product snapshot: %w", err)
	}

	accounts, err := s.accounts.List(tenantID)
	if err != nil {
		return nil, fmt.Errorf("list channel accounts: %w", err)
	}

	results := make(map[models.ChannelCode]models.ChannelValidationResult)
	for _, account := range accounts {
		if _, done := results[account.ChannelCode]; done {
			continue
		}
		result, verr := s.validateSnapshot(ctx, tenantID, product, account.ChannelCode)
		if verr != nil {
			return nil, verr
		}
		results[account.ChannelCode] = *result
	}
	return results, nil
}

func (s *ValidationService) validateSnapshot(ctx context.Context, tenantID uuid.UUID, product *models.ProductSnapshot, channel models.ChannelCode) (*models.ChannelValidationResult, error) {
	reqSet, err := s.requirements.RequirementSet(ctx, tenantID, channel, product.FamilyCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// operator setup gap, reported as a structured result
			return &models.ChannelValidationResult{
				ChannelCode: channel,
				IsValid:     false,
				Errors: []models.FieldIssue{{
					Code:     models.IssueCodeNoRulesInScope,
					Severity: models.IssueSeverityError,
					Message:  fmt.Sprintf("no requirement set configured for channel %s", channel),
				}},
				Warnings:          []models.FieldIssue{},
				MissingFields:     []string{},
				RecommendedFields: []string{},
			}, nil
		}
		return nil, fmt.Errorf("load requirement set: %w", err)
	}

	rules, err := s.requirements.Rules(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load completeness rules: %w", err)
	}

	result := validation.Validate(product, reqSet, rules)
	return &result, nil
}
