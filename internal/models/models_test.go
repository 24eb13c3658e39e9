package models_test

import (
	"testing"
	"time"

	"github.com/justsurfingit/SalaryIQ/internal/models"
)

func TestAnalysisCache_IsExpired(t *testing.T) {
	exp := time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)
	row := models.AnalysisCache{ExpiresAt: exp}

	if row.IsExpired(exp.Add(-time.Nanosecond)) {
		t.Error("expired before ExpiresAt")
	}
	if !row.IsExpired(exp) {
		t.Error("not expired at ExpiresAt")
	}
}

func TestParseVerdict(t *testing.T) {
	for _, s := range []string{"underpaid", "fair", "overpaid"} {
		if v, ok := models.ParseVerdict(s); !ok || string(v) != s {
			t.Errorf("ParseVerdict(%q) = %q, %v", s, v, ok)
		}
	}
	if _, ok := models.ParseVerdict("great"); ok {
		t.Error("ParseVerdict accepted an unknown verdict")
	}
}
