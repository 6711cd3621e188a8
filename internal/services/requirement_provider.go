package services

import (
	"context"
	"sync"
	"time"

	"chansync/internal/repo"
	"chansync/pkg/models"

	"github.com/google/uuid"
)

// RequirementService serves requirement sets and completeness rules with a
// short-lived in-memory cache. Cached sets carry their RulesVersion, so an
// edit (which bumps the version) makes stale copies detectable; the TTL
// bounds how long a stale copy can survive anyway.
type RequirementService struct {
	repo *repo.RequirementRepository
	ttl  time.Duration

	mu        sync.RWMutex
	setCache  map[setCacheKey]cachedSet
	ruleCache map[uuid.UUID]cachedRules
}

type setCacheKey struct {
	tenantID uuid.UUID
	channel  models.ChannelCode
	family   string
}

type cachedSet struct {
	set       models.ChannelRequirementSet
	fetchedAt time.Time
}

type cachedRules struct {
	rules     []models.CompletenessRule
	fetchedAt time.Time
}

// NewRequirementService creates a requirement provider with caching
func NewRequirementService(requirementRepo *repo.RequirementRepository) *RequirementService {
	return &RequirementService{
		repo:      requirementRepo,
		ttl:       time.Minute,
		setCache:  make(map[setCacheKey]cachedSet),
		ruleCache: make(map[uuid.UUID]cachedRules),
	}
}

// RequirementSet returns the requirement set for a channel/family pair
func (s *RequirementService) RequirementSet(ctx context.Context, tenantID uuid.UUID, channel models.ChannelCode, familyCode string) (*models.ChannelRequirementSet, error) {
	key := setCacheKey{tenantID: tenantID, channel: channel, family: familyCode}

	s.mu.RLock()
	cached, ok := s.setCache[key]
	s.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) < s.ttl {
		set := cached.set
		return &set, nil
	}

	set, err := s.repo.GetRequirementSet(tenantID, channel, familyCode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.setCache[key] = cachedSet{set: *set, fetchedAt: time.Now()}
	s.mu.Unlock()
	return set, nil
}

// Rules returns all completeness rules of a tenant
func (s *RequirementService) Rules(ctx context.Context, tenantID uuid.UUID) ([]models.CompletenessRule, error) {
	s.mu.RLock()
	cached, ok := s.ruleCache[tenantID]
	s.mu.RUnlock()
	if ok && time.Since(cached.fetchedAt) < s.ttl {
		return cached.rules, nil
	}

	rules, err := s.repo.ListRules(tenantID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.ruleCache[tenantID] = cachedRules{rules: rules, fetchedAt: time.Now()}
	s.mu.Unlock()
	return rules, nil
}

// Invalidate drops a tenant's cached configuration after an edit
func (s *RequirementService) Invalidate(tenantID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.setCache {
		if key.tenantID == tenantID {
			delete(s.setCache, key)
		}
	}
	delete(s.ruleCache, tenantID)
}
