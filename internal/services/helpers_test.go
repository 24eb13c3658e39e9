package services_test

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/justsurfingit/SalaryIQ/internal/dtos"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

func validForm() *dtos.SalaryFormData {
	return &dtos.SalaryFormData{
		JobTitle:        "Software Engineer",
		YearsExperience: intPtr(5),
		Location:        "Austin, TX",
		Industry:        "Technology",
		Skills:          []string{"Go", "Kubernetes"},
		Currency:        "USD",
	}
}

const validAIJSON = `{
  "min_salary": 80000,
  "median_salary": 100000,
  "max_salary": 130000,
  "percentile_25": 90000,
  "percentile_75": 115000,
  "verdict": "fair",
  "difference_percentage": -5,
  "confidence": 82,
  "recommendations": ["Negotiate", "Learn Rust"],
  "reasoning": "Solid mid-level profile",
  "market_insights": "Demand is steady",
  "market_position": {"percentile": 48, "national_average": 98000, "city_premium_percentage": 3},
  "top_skill_impacts": [{"skill": "Rust", "salary_increase": 9000, "percentage_increase": 9, "demand": "high"}]
}`

// fakeModel is an llms.Model whose replies are chosen per requested model id.
type fakeModel struct {
	mu      sync.Mutex
	calls   []string
	respond func(model string) (string, error)
}

func (f *fakeModel) GenerateContent(ctx context.Context, _ []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}

	f.mu.Lock()
	f.calls = append(f.calls, opts.Model)
	f.mu.Unlock()

	text, err := f.respond(opts.Model)
	if err != nil {
		return nil, err
	}
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func (f *fakeModel) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// recordingSleep captures backoff waits without sleeping.
type recordingSleep struct {
	waits []time.Duration
}

func (r *recordingSleep) Sleep(ctx context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

// manualClock is a settable time source.
type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func newManualClock() *manualClock {
	return &manualClock{t: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

var errBoom = errors.New("boom")
