package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/justsurfingit/SalaryIQ/internal/services"
)

func TestCleanupService_RunOnce(t *testing.T) {
	ctx := context.Background()
	clock := newManualClock()
	store := services.NewMemoryStore(clock.Now)

	_ = store.Put(ctx, "old", sampleResult("r-old"), time.Hour)
	_ = store.Put(ctx, "new", sampleResult("r-new"), services.ResultTTL)
	clock.Advance(2 * time.Hour)

	c := services.NewCleanupService(store, "@every 6h", quietLogger())
	if n := c.RunOnce(ctx); n != 1 {
		t.Errorf("RunOnce deleted %d, want 1", n)
	}
	if n, _ := store.Count(ctx); n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestCleanupService_StoreError(t *testing.T) {
	c := services.NewCleanupService(brokenStore{}, "@every 6h", quietLogger())
	if n := c.RunOnce(context.Background()); n != 0 {
		t.Errorf("RunOnce = %d, want 0", n)
	}
}

func TestCleanupService_StartStop(t *testing.T) {
	c := services.NewCleanupService(services.NewMemoryStore(nil), "@every 1h", quietLogger())
	if err := c.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	c.Stop()

	bad := services.NewCleanupService(services.NewMemoryStore(nil), "not a schedule", quietLogger())
	if err := bad.Start(); err == nil {
		t.Error("expected error for invalid schedule")
	}
}
