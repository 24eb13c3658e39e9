package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/SalaryIQ/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

var (
	// ErrConfiguration means no AI credential is set. Never retried.
	ErrConfiguration = errors.New("gemini API key not configured")
	// ErrUnparsableResponse is the terminal error when the last failure was a parse failure.
	ErrUnparsableResponse = errors.New("failed to parse AI response, please try again")
)

// ProviderError is a transport, status or empty-response failure of one model.
type ProviderError struct {
	Model string
	Err   error
}

func (e *ProviderError) Error() string { return fmt.Sprintf("model %s failed: %v", e.Model, e.Err) }
func (e *ProviderError) Unwrap() error { return e.Err }

// ParseError means the model answered with text that is not the expected JSON.
type ParseError struct {
	Model string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("model %s returned unparsable response: %v", e.Model, e.Err)
}
func (e *ParseError) Unwrap() error { return e.Err }

// AIResponse is the JSON document the model is instructed to return.
type AIResponse struct {
	MinSalary            *float64 `json:"min_salary"`
	MedianSalary         *float64 `json:"median_salary"`
	MaxSalary            *float64 `json:"max_salary"`
	Percentile25         *float64 `json:"percentile_25,omitempty"`
	Percentile75         *float64 `json:"percentile_75,omitempty"`
	Verdict              string   `json:"verdict"`
	DifferencePercentage float64  `json:"difference_percentage"`
	Confidence           *float64 `json:"confidence"`
	Recommendations      []string `json:"recommendations"`
	Reasoning            string   `json:"reasoning,omitempty"`
	MarketInsights       string   `json:"market_insights,omitempty"`

	MarketPosition *struct {
		Percentile            float64 `json:"percentile"`
		NationalAverage       float64 `json:"national_average"`
		CityPremiumPercentage float64 `json:"city_premium_percentage"`
	} `json:"market_position,omitempty"`
	EarningProjection *struct {
		CurrentYear             float64 `json:"current_year"`
		Year3                   float64 `json:"year_3"`
		Year5                   float64 `json:"year_5"`
		AverageAnnualGrowthRate float64 `json:"average_annual_growth_rate"`
	} `json:"earning_projection,omitempty"`
	TopSkillImpacts []struct {
		Skill              string  `json:"skill"`
		SalaryIncrease     float64 `json:"salary_increase"`
		PercentageIncrease float64 `json:"percentage_increase"`
		Demand             string  `json:"demand"`
	} `json:"top_skill_impacts,omitempty"`
	LocationComparisons []struct {
		City                 string  `json:"city"`
		AverageSalary        float64 `json:"average_salary"`
		PercentageDifference float64 `json:"percentage_difference"`
	} `json:"location_comparisons,omitempty"`
	IndustryBenchmarks []struct {
		Industry             string  `json:"industry"`
		AverageSalary        float64 `json:"average_salary"`
		PercentageDifference float64 `json:"percentage_difference"`
		GrowthTrend          string  `json:"growth_trend"`
	} `json:"industry_benchmarks,omitempty"`
	TimeToTarget *struct {
		TargetSalary              float64 `json:"target_salary"`
		YearsWithAvgGrowth        float64 `json:"years_with_avg_growth"`
		YearsWithAggressiveGrowth float64 `json:"years_with_aggressive_growth"`
		YearsWithSkillUpgrades    float64 `json:"years_with_skill_upgrades"`
		AvgGrowthRate             float64 `json:"avg_growth_rate"`
		AggressiveGrowthRate      float64 `json:"aggressive_growth_rate"`
	} `json:"time_to_target,omitempty"`
}

// Min, Median and Max are safe to call once ParseAIResponse succeeded.
func (r *AIResponse) Min() float64    { return *r.MinSalary }
func (r *AIResponse) Median() float64 { return *r.MedianSalary }
func (r *AIResponse) Max() float64    { return *r.MaxSalary }

// stripFences removes a leading ```json or ``` fence and its closing fence.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimPrefix(s, "```json")
	case strings.HasPrefix(s, "```"):
		s = strings.TrimPrefix(s, "```")
	default:
		return s
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func present(v *float64) bool { return v != nil && *v > 0 }

// ParseAIResponse unwraps fenced text and strictly decodes the model output.
// Missing salary figures or verdict are an error; an unknown verdict becomes
// "fair"; confidence defaults to 75 and is clamped to [0, 100].
func ParseAIResponse(text string) (*AIResponse, error) {
	var r AIResponse
	if err := json.Unmarshal([]byte(stripFences(text)), &r); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}

	if !present(r.MinSalary) || !present(r.MedianSalary) || !present(r.MaxSalary) || r.Verdict == "" {
		return nil, errors.New("invalid response structure: min/median/max salary and verdict are required")
	}

	if _, ok := models.ParseVerdict(r.Verdict); !ok {
		r.Verdict = string(models.VerdictFair)
	}

	confidence := 75.0
	if r.Confidence != nil && *r.Confidence != 0 {
		confidence = *r.Confidence
	}
	confidence = max(0, min(100, confidence))
	r.Confidence = &confidence

	if r.Recommendations == nil {
		r.Recommendations = []string{}
	}
	return &r, nil
}

// LLMOptions tunes model fallback and retry.
type LLMOptions struct {
	Models      []string      // tried in order on every attempt
	Timeout     time.Duration // per model call
	MaxAttempts int
	BaseDelay   time.Duration
	Sleep       SleepFunc
	Now         func() time.Time
}

func (o *LLMOptions) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = 45 * time.Second
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 3
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = time.Second
	}
	if o.Sleep == nil {
		o.Sleep = sleepContext
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// LLMService asks Gemini for a salary estimate, falling back across models
// and retrying whole fallback sequences with exponential backoff.
type LLMService struct {
	// Client is nil when no API key is configured.
	Client llms.Model
	opts   LLMOptions
	log    logrus.FieldLogger
}

// NewGeminiModel builds the langchaingo Gemini client.
func NewGeminiModel(ctx context.Context, apiKey, defaultModel string) (llms.Model, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(defaultModel),
		googleai.WithHarmThreshold(googleai.HarmBlockNone),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return llm, nil
}

// NewLLMService wires a model client. A nil client makes every call fail with
// ErrConfiguration.
func NewLLMService(client llms.Model, opts LLMOptions, log logrus.FieldLogger) *LLMService {
	opts.defaults()
	return &LLMService{Client: client, opts: opts, log: log}
}

// AnalyzeSalary returns the validated model answer for the profile.
func (s *LLMService) AnalyzeSalary(ctx context.Context, p *Profile) (*AIResponse, error) {
	if s.Client == nil {
		return nil, ErrConfiguration
	}

	prompt := BuildPrompt(p, s.opts.Now().Year())

	var result *AIResponse
	err := retry(ctx, s.log, s.opts.MaxAttempts, s.opts.BaseDelay, s.opts.Sleep,
		func(err error) bool { return errors.Is(err, ErrConfiguration) },
		func() error {
			r, err := s.tryModels(ctx, prompt)
			if err != nil {
				return err
			}
			result = r
			return nil
		})
	if err == nil {
		return result, nil
	}

	var perr *ParseError
	if errors.As(err, &perr) {
		return nil, fmt.Errorf("%w: %v", ErrUnparsableResponse, err)
	}
	return nil, err
}

// tryModels is one logical attempt: the first model with a valid answer wins.
func (s *LLMService) tryModels(ctx context.Context, prompt string) (*AIResponse, error) {
	if len(s.opts.Models) == 0 {
		return nil, errors.New("no gemini models configured")
	}

	var lastErr error
	for _, model := range s.opts.Models {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		log := s.log.WithField("model", model)
		log.Info("trying gemini model")

		r, err := s.callModel(ctx, model, prompt)
		if err != nil {
			log.WithError(err).Error("gemini model failed")
			lastErr = err
			continue
		}

		log.Info("gemini model succeeded")
		return r, nil
	}
	return nil, lastErr
}

func (s *LLMService) callModel(ctx context.Context, model, prompt string) (*AIResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	text, err := llms.GenerateFromSinglePrompt(callCtx, s.Client, prompt,
		llms.WithModel(model),
		llms.WithTemperature(0.7),
		llms.WithTopK(40),
		llms.WithTopP(0.95),
		llms.WithMaxTokens(4096),
	)
	if err != nil {
		return nil, &ProviderError{Model: model, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ProviderError{Model: model, Err: errors.New("empty response from gemini")}
	}

	r, err := ParseAIResponse(text)
	if err != nil {
		return nil, &ParseError{Model: model, Err: err}
	}
	return r, nil
}
