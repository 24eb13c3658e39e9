package services_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/justsurfingit/SalaryIQ/internal/models"
	"github.com/justsurfingit/SalaryIQ/internal/services"
)

func sampleResult(id string) *models.AnalysisResult {
	amount := -5000.0
	p25 := 90000.0
	return &models.AnalysisResult{
		ID:               id,
		Verdict:          models.VerdictFair,
		SalaryRange:      models.SalaryRange{Min: 80000, Median: 100000, Max: 130000, Percentile25: &p25},
		CurrentSalary:    int64Ptr(95000),
		Difference:       -5,
		DifferenceAmount: &amount,
		Confidence:       82,
		Recommendations:  []string{"Negotiate"},
		Currency:         "USD",
		CreatedAt:        time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		TopSkillImpacts:  []models.SkillImpact{{Skill: "Rust", SalaryIncrease: 9000, PercentageIncrease: 9, Demand: "high"}},
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	clock := newManualClock()
	store := services.NewMemoryStore(clock.Now)

	want := sampleResult("res-1")
	if err := store.Put(ctx, "fp-1", want, services.ResultTTL); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := store.Get(ctx, "fp-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Get = %+v, want %+v", got, want)
	}

	byID, err := store.GetByID(ctx, "res-1")
	if err != nil || byID == nil || byID.ID != "res-1" {
		t.Errorf("GetByID = %v, %v", byID, err)
	}
}

func TestMemoryStore_Misses(t *testing.T) {
	ctx := context.Background()
	store := services.NewMemoryStore(newManualClock().Now)

	if r, err := store.Get(ctx, "nope"); r != nil || err != nil {
		t.Errorf("Get on empty store = %v, %v", r, err)
	}
	if r, err := store.GetByID(ctx, "nope"); r != nil || err != nil {
		t.Errorf("GetByID on empty store = %v, %v", r, err)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := newManualClock()
	store := services.NewMemoryStore(clock.Now)

	_ = store.Put(ctx, "fp-1", sampleResult("res-1"), services.ResultTTL)

	clock.Advance(services.ResultTTL - time.Second)
	if r, _ := store.Get(ctx, "fp-1"); r == nil {
		t.Fatal("entry expired early")
	}

	clock.Advance(time.Second)
	if r, _ := store.Get(ctx, "fp-1"); r != nil {
		t.Error("entry served at its expiry instant")
	}
	if r, _ := store.GetByID(ctx, "res-1"); r != nil {
		t.Error("expired entry served by id")
	}

	n, err := store.CleanExpired(ctx)
	if err != nil || n != 1 {
		t.Errorf("CleanExpired = %d, %v; want 1", n, err)
	}
	if c, _ := store.Count(ctx); c != 0 {
		t.Errorf("Count after cleanup = %d", c)
	}
}

func TestMemoryStore_PutOverwritesAndResetsExpiry(t *testing.T) {
	ctx := context.Background()
	clock := newManualClock()
	store := services.NewMemoryStore(clock.Now)

	_ = store.Put(ctx, "fp-1", sampleResult("res-1"), time.Hour)
	clock.Advance(50 * time.Minute)
	_ = store.Put(ctx, "fp-1", sampleResult("res-2"), time.Hour)
	clock.Advance(50 * time.Minute)

	r, _ := store.Get(ctx, "fp-1")
	if r == nil || r.ID != "res-2" {
		t.Fatalf("Get = %v, want res-2", r)
	}
	if old, _ := store.GetByID(ctx, "res-1"); old != nil {
		t.Error("overwritten result still reachable by id")
	}
	if c, _ := store.Count(ctx); c != 1 {
		t.Errorf("Count = %d, want 1", c)
	}

	_ = store.Delete(ctx, "fp-1")
	if r, _ := store.Get(ctx, "fp-1"); r != nil {
		t.Error("deleted entry still served")
	}
}
