package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mortgage-qualify/internal/adapters/persistence/models"
	"mortgage-qualify/internal/core/domain"
	"mortgage-qualify/internal/core/engine"
	"mortgage-qualify/internal/pkg/refcode"
)

// ComputationService orchestrates one computation end to end: cache lookup,
// engine run, snapshot persistence. The engine itself stays pure; every side
// effect lives here.
type ComputationService struct {
	engine   *engine.Engine
	profiles LoanProfileRepository
	cache    ResultCache
	cacheTTL time.Duration
	window   time.Duration
	log      *zap.Logger
}

// NewComputationService creates a new computation service. window is the
// reservation window stamped by Reserve.
func NewComputationService(
	eng *engine.Engine,
	profiles LoanProfileRepository,
	cache ResultCache,
	cacheTTL time.Duration,
	window time.Duration,
	log *zap.Logger,
) *ComputationService {
	return &ComputationService{
		engine:   eng,
		profiles: profiles,
		cache:    cache,
		cacheTTL: cacheTTL,
		window:   window,
		log:      log,
	}
}

// ComputationOutput bundles a stored computation with its reference code.
type ComputationOutput struct {
	ReferenceCode string                            `json:"reference_code"`
	Result        *domain.MortgageComputationResult `json:"result"`
	Cached        bool                              `json:"cached"`
}

// Compute runs the engine for the given inputs and persists the snapshot.
// Identical inputs hit the cache and return the previously stored profile.
func (s *ComputationService) Compute(ctx context.Context, in domain.MortgageInputs) (*ComputationOutput, error) {
	key, err := cacheKey(in)
	if err != nil {
		return nil, err
	}

	if raw, ok := s.cache.Get(ctx, key); ok {
		var out ComputationOutput
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			out.Cached = true
			return &out, nil
		}
		s.log.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	result, err := s.engine.Compute(in)
	if err != nil {
		return nil, err
	}

	profile, err := buildProfile(in, result)
	if err != nil {
		return nil, err
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("save loan profile: %w", err)
	}

	out := &ComputationOutput{ReferenceCode: profile.ReferenceCode, Result: result}
	if raw, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, key, string(raw), s.cacheTTL); err != nil {
			s.log.Warn("result cache store failed", zap.String("key", key), zap.Error(err))
		}
	}

	s.log.Info("computation stored",
		zap.String("reference_code", profile.ReferenceCode),
		zap.String("institution", result.InstitutionCode),
		zap.Bool("qualifies", result.Qualifies),
	)
	return out, nil
}

// GetByReferenceCode fetches a stored snapshot.
func (s *ComputationService) GetByReferenceCode(ctx context.Context, code string) (*models.LoanProfile, error) {
	return s.profiles.GetByReferenceCode(ctx, code)
}

// List lists stored snapshots.
func (s *ComputationService) List(ctx context.Context, offset, limit int) ([]*models.LoanProfile, int64, error) {
	return s.profiles.List(ctx, offset, limit)
}

// Reserve stamps the reservation window on a snapshot and returns the
// updated record.
func (s *ComputationService) Reserve(ctx context.Context, code string) (*models.LoanProfile, error) {
	now := time.Now().UTC()
	if err := s.profiles.Reserve(ctx, code, now, now.Add(s.window)); err != nil {
		return nil, err
	}
	return s.profiles.GetByReferenceCode(ctx, code)
}

// cacheKey is the SHA-256 of the canonical JSON encoding of the inputs.
// json.Marshal emits struct fields in declaration order and sorts map keys,
// so equal inputs always hash equal.
func cacheKey(in domain.MortgageInputs) (string, error) {
	raw, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("%w: encode inputs: %v", domain.ErrComputationFailed, err)
	}
	sum := sha256.Sum256(raw)
	return "mortgage:computation:" + hex.EncodeToString(sum[:]), nil
}

// buildProfile assembles the persisted snapshot: raw inputs for replay, the
// full bundle, and the headline figures denormalized for querying.
func buildProfile(in domain.MortgageInputs, result *domain.MortgageComputationResult) (*models.LoanProfile, error) {
	rawInputs, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%w: encode inputs: %v", domain.ErrComputationFailed, err)
	}
	rawResult, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: encode result: %v", domain.ErrComputationFailed, err)
	}
	return &models.LoanProfile{
		ReferenceCode:               refcode.New(),
		InstitutionCode:             result.InstitutionCode,
		TotalContractPrice:          result.TotalContractPrice.Amount(),
		Currency:                    result.TotalContractPrice.Currency(),
		Inputs:                      string(rawInputs),
		Computation:                 string(rawResult),
		Qualified:                   result.Qualifies,
		RequiredEquity:              result.RequiredEquity.Amount(),
		IncomeGap:                   result.IncomeGap.Amount(),
		SuggestedDownPaymentPercent: result.PercentDownPaymentRemedy.Fraction(),
		Reason:                      result.Reason,
	}, nil
}
