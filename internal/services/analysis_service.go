package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/SalaryIQ/internal/dtos"
	"github.com/justsurfingit/SalaryIQ/internal/models"
	"github.com/sirupsen/logrus"
)

// SalaryAnalyzer produces a validated AI estimate for a profile.
type SalaryAnalyzer interface {
	AnalyzeSalary(ctx context.Context, p *Profile) (*AIResponse, error)
}

// AnalysisService runs the request pipeline:
// normalize -> cache lookup -> rate limit -> AI -> classify -> cache write.
type AnalysisService struct {
	Store   ResultStore
	Limiter RateLimiter
	AI      SalaryAnalyzer

	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string
}

func NewAnalysisService(store ResultStore, limiter RateLimiter, ai SalaryAnalyzer, log logrus.FieldLogger) *AnalysisService {
	return &AnalysisService{
		Store:   store,
		Limiter: limiter,
		AI:      ai,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Analyze returns the analysis for the submitted form and whether it came
// from the cache. Store failures are logged and treated as a miss.
func (s *AnalysisService) Analyze(ctx context.Context, form *dtos.SalaryFormData) (*models.AnalysisResult, bool, error) {
	profile, err := NormalizeProfile(form)
	if err != nil {
		return nil, false, err
	}

	fp := Fingerprint(profile)
	log := s.log.WithField("fingerprint", fp[:12])

	cached, err := s.Store.Get(ctx, fp)
	switch {
	case errors.Is(err, ErrCorruptEntry):
		log.WithError(err).Warn("dropping corrupt cache entry")
		if err := s.Store.Delete(ctx, fp); err != nil {
			log.WithError(err).Error("cache delete failed")
		}
	case err != nil:
		log.WithError(err).Error("cache read failed")
	case cached != nil:
		log.Info("cache hit for analysis")
		return cached, true, nil
	}
	log.Info("cache miss, calling gemini")

	if err := s.Limiter.Check(ctx); err != nil {
		var rl *RateLimitError
		if errors.As(err, &rl) {
			log.WithFields(logrus.Fields{"window": rl.Window, "retry_after": rl.RetryAfterSeconds()}).
				Warn("rate limit reached")
			return nil, false, err
		}
		log.WithError(err).Error("rate limiter unavailable, allowing request")
	}

	ai, err := s.AI.AnalyzeSalary(ctx, profile)
	if err != nil {
		return nil, false, err
	}

	if err := s.Limiter.Record(ctx); err != nil {
		log.WithError(err).Error("rate limiter record failed")
	}

	result := s.buildResult(profile, ai)

	if err := s.Store.Put(ctx, fp, result, ResultTTL); err != nil {
		log.WithError(err).Error("failed to cache analysis")
	}
	return result, false, nil
}

// Result resolves a share-link id. Absent and expired both return (nil, nil).
func (s *AnalysisService) Result(ctx context.Context, id string) (*models.AnalysisResult, error) {
	return s.Store.GetByID(ctx, id)
}

// Metadata is the reduced projection of a stored result for link previews.
func (s *AnalysisService) Metadata(ctx context.Context, id string) (*dtos.ResultMetadata, error) {
	r, err := s.Store.GetByID(ctx, id)
	if err != nil || r == nil {
		return nil, err
	}
	return MetadataFor(r), nil
}

// MetadataFor projects r onto the fields a preview image needs.
func MetadataFor(r *models.AnalysisResult) *dtos.ResultMetadata {
	diff := r.Difference
	if diff < 0 {
		diff = -diff
	}
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return &dtos.ResultMetadata{
		Verdict:    r.Verdict,
		Difference: diff,
		Min:        r.SalaryRange.Min,
		Max:        r.SalaryRange.Max,
		Currency:   currency,
	}
}

// Stats reports the stored analysis count and current rate-limit usage.
func (s *AnalysisService) Stats(ctx context.Context) dtos.StatsResponse {
	var out dtos.StatsResponse

	n, err := s.Store.Count(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to count analyses")
	}
	out.TotalAnalyses = n

	status, err := s.Limiter.Status(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to read rate limit status")
	}
	out.RateLimit = status
	return out
}

func (s *AnalysisService) buildResult(p *Profile, ai *AIResponse) *models.AnalysisResult {
	cls := ClassifySalary(p.CurrentSalary, ai.Min(), ai.Median(), ai.Max(), ai.DifferencePercentage)

	r := &models.AnalysisResult{
		ID:      s.newID(),
		Verdict: cls.Verdict,
		SalaryRange: models.SalaryRange{
			Min:          ai.Min(),
			Median:       ai.Median(),
			Max:          ai.Max(),
			Percentile25: ai.Percentile25,
			Percentile75: ai.Percentile75,
		},
		CurrentSalary:    p.CurrentSalary,
		Difference:       cls.Difference,
		DifferenceAmount: cls.DifferenceAmount,
		Confidence:       *ai.Confidence,
		Recommendations:  ai.Recommendations,
		Reasoning:        ai.Reasoning,
		MarketInsights:   ai.MarketInsights,
		Currency:         p.Currency,
		CreatedAt:        s.now().UTC(),
	}

	if mp := ai.MarketPosition; mp != nil {
		r.MarketPosition = &models.MarketPosition{
			Percentile:            mp.Percentile,
			NationalAverage:       mp.NationalAverage,
			CityPremiumPercentage: mp.CityPremiumPercentage,
		}
	}
	if ep := ai.EarningProjection; ep != nil {
		r.EarningProjection = &models.EarningProjection{
			CurrentYear:             ep.CurrentYear,
			Year3:                   ep.Year3,
			Year5:                   ep.Year5,
			AverageAnnualGrowthRate: ep.AverageAnnualGrowthRate,
		}
	}
	for _, si := range ai.TopSkillImpacts {
		r.TopSkillImpacts = append(r.TopSkillImpacts, models.SkillImpact{
			Skill:              si.Skill,
			SalaryIncrease:     si.SalaryIncrease,
			PercentageIncrease: si.PercentageIncrease,
			Demand:             si.Demand,
		})
	}
	for _, lc := range ai.LocationComparisons {
		r.LocationComparisons = append(r.LocationComparisons, models.LocationComparison{
			City:                 lc.City,
			AverageSalary:        lc.AverageSalary,
			PercentageDifference: lc.PercentageDifference,
		})
	}
	for _, ib := range ai.IndustryBenchmarks {
		r.IndustryBenchmarks = append(r.IndustryBenchmarks, models.IndustryBenchmark{
			Industry:             ib.Industry,
			AverageSalary:        ib.AverageSalary,
			PercentageDifference: ib.PercentageDifference,
			GrowthTrend:          ib.GrowthTrend,
		})
	}
	if tt := ai.TimeToTarget; tt != nil {
		r.TimeToTarget = &models.TimeToTarget{
			TargetSalary:              tt.TargetSalary,
			YearsWithAvgGrowth:        tt.YearsWithAvgGrowth,
			YearsWithAggressiveGrowth: tt.YearsWithAggressiveGrowth,
			YearsWithSkillUpgrades:    tt.YearsWithSkillUpgrades,
			AvgGrowthRate:             tt.AvgGrowthRate,
			AggressiveGrowthRate:      tt.AggressiveGrowthRate,
		}
	}
	return r
}
