package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/domus-lending/quote-service/internal/engine"
	"github.com/domus-lending/quote-service/internal/models"
	"github.com/domus-lending/quote-service/internal/repository"
	"github.com/domus-lending/quote-service/internal/utils"
	"github.com/sirupsen/logrus"
)

// ErrInvalidScenario classifies out-of-domain input rejected before the
// engine runs. The engine itself assumes well-formed values.
var ErrInvalidScenario = fmt.Errorf("invalid scenario")

// narrativeTTL bounds how long a generated narrative is reused for an
// identical scenario.
const narrativeTTL = 24 * time.Hour

// QuoteStore persists submitted quotes.
type QuoteStore interface {
	SaveQuote(rec *models.QuoteRecord) error
	FindQuoteByID(id int64) (*models.QuoteRecord, error)
	ListRecentQuotes(limit int) ([]models.QuoteSummary, error)
}

// Analyzer produces the prose narrative for an evaluated scenario.
type Analyzer interface {
	Analyze(ctx context.Context, in *models.ScenarioInput, result *models.UnderwritingResult) *models.DealAnalysis
}

// Notifier forwards a completed quote to a human reviewer.
type Notifier interface {
	SendQuoteNotification(in *models.ScenarioInput, result *models.UnderwritingResult, quoteID int64) error
}

// Service handles business logic
type Service struct {
	engine   *engine.Engine
	store    QuoteStore
	cache    repository.CacheRepository
	analyzer Analyzer
	notifier Notifier
	log      *logrus.Logger
}

// NewService initializes a new service
func NewService(eng *engine.Engine, store QuoteStore, cache repository.CacheRepository,
	analyzer Analyzer, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		engine:   eng,
		store:    store,
		cache:    cache,
		analyzer: analyzer,
		notifier: notifier,
		log:      log,
	}
}

// ValidateScenario rejects out-of-domain input as an invalid-scenario error
// rather than letting a non-finite result propagate out of the engine.
func ValidateScenario(in *models.ScenarioInput) error {
	switch in.AssetType {
	case models.AssetSingle, models.AssetTwoUnit, models.AssetThreeUnit, models.AssetFourUnit:
	default:
		return fmt.Errorf("%w: unknown asset type %q", ErrInvalidScenario, in.AssetType)
	}
	switch in.LoanPurpose {
	case models.PurposePurchase, models.PurposeRefinance:
	default:
		return fmt.Errorf("%w: unknown loan purpose %q", ErrInvalidScenario, in.LoanPurpose)
	}
	switch in.PrepaymentPenalty {
	case models.PrepayNone, models.Prepay12Months, models.Prepay24Months,
		models.Prepay36Months, models.Prepay48Months, models.Prepay60Months:
	default:
		return fmt.Errorf("%w: unknown prepayment penalty term %q", ErrInvalidScenario, in.PrepaymentPenalty)
	}
	if in.AsIsValue <= 0 {
		return fmt.Errorf("%w: as-is value must be positive", ErrInvalidScenario)
	}
	if in.PurchasePrice < 0 {
		return fmt.Errorf("%w: purchase price must not be negative", ErrInvalidScenario)
	}
	if in.MonthlyRent <= 0 {
		return fmt.Errorf("%w: monthly rent must be positive", ErrInvalidScenario)
	}
	if in.AnnualTax < 0 || in.AnnualInsurance < 0 || in.MonthlyHOA < 0 {
		return fmt.Errorf("%w: tax, insurance and HOA must not be negative", ErrInvalidScenario)
	}
	if in.Liquidity < 0 {
		return fmt.Errorf("%w: liquidity must not be negative", ErrInvalidScenario)
	}
	if in.NumberOfUnits < 1 || in.NumberOfUnits > 9 {
		return fmt.Errorf("%w: number of units must be between 1 and 9", ErrInvalidScenario)
	}
	if in.LoanPurpose == models.PurposeRefinance && in.PayoffAmount <= 0 {
		return fmt.Errorf("%w: refinance requires a positive payoff amount", ErrInvalidScenario)
	}
	if in.FicoScore < 0 {
		return fmt.Errorf("%w: credit score must not be negative", ErrInvalidScenario)
	}
	return nil
}

// SubmitQuote evaluates a scenario, attaches the narrative, persists the
// record and notifies the reviewer. Persistence and notification failures are
// logged and never change the evaluation outcome.
func (s *Service) SubmitQuote(ctx context.Context, in *models.ScenarioInput) (*models.QuoteRecord, error) {
	if err := ValidateScenario(in); err != nil {
		return nil, err
	}

	result := s.engine.Evaluate(in)
	result.Analysis = s.narrativeFor(ctx, in, result)

	rec := &models.QuoteRecord{
		SubmittedAt: time.Now(),
		Scenario:    *in,
		Result:      *result,
	}
	if err := s.store.SaveQuote(rec); err != nil {
		s.log.Warnf("Failed to save quote: %v", err)
	}

	if s.notifier != nil {
		if err := s.notifier.SendQuoteNotification(in, result, rec.ID); err != nil {
			s.log.Warnf("Failed to notify reviewer for quote %d: %v", rec.ID, err)
		}
	}

	s.log.WithFields(logrus.Fields{
		"quote_id": rec.ID,
		"band":     result.Band,
		"dscr":     fmt.Sprintf("%.2f", result.DSCR),
		"ltv":      fmt.Sprintf("%.2f", result.LTV),
	}).Info("Quote evaluated")

	return rec, nil
}

// narrativeFor resolves the prose analysis, reusing a cached narrative for an
// identical scenario before calling the generator.
func (s *Service) narrativeFor(ctx context.Context, in *models.ScenarioInput, result *models.UnderwritingResult) *models.DealAnalysis {
	digest, err := utils.ScenarioDigest(in)
	if err != nil {
		s.log.Warnf("Failed to compute scenario digest: %v", err)
		return s.analyzer.Analyze(ctx, in, result)
	}

	key := "narrative:" + digest
	if cached, ok := s.cache.Get(key); ok {
		analysis := &models.DealAnalysis{}
		if err := json.Unmarshal([]byte(cached), analysis); err == nil {
			return analysis
		}
		s.log.Warnf("Discarding unreadable cached narrative for %s", key)
	}

	analysis := s.analyzer.Analyze(ctx, in, result)
	if data, err := json.Marshal(analysis); err == nil {
		if err := s.cache.Set(key, string(data), narrativeTTL); err != nil {
			s.log.Warnf("Failed to cache narrative: %v", err)
		}
	}
	return analysis
}

// GetQuote retrieves a persisted quote by id.
func (s *Service) GetQuote(id int64) (*models.QuoteRecord, error) {
	return s.store.FindQuoteByID(id)
}

// ListQuotes returns the newest submissions.
func (s *Service) ListQuotes(limit int) ([]models.QuoteSummary, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.store.ListRecentQuotes(limit)
}
