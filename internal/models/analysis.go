package models

import "time"

// Verdict is the three-way salary classification.
type Verdict string

const (
	VerdictUnderpaid Verdict = "underpaid"
	VerdictFair      Verdict = "fair"
	VerdictOverpaid  Verdict = "overpaid"
)

// ParseVerdict returns the verdict named by s, or false if s is not one of
// the three recognized labels.
func ParseVerdict(s string) (Verdict, bool) {
	switch v := Verdict(s); v {
	case VerdictUnderpaid, VerdictFair, VerdictOverpaid:
		return v, true
	}
	return "", false
}

type SalaryRange struct {
	Min          float64  `json:"min"`
	Median       float64  `json:"median"`
	Max          float64  `json:"max"`
	Percentile25 *float64 `json:"percentile25,omitempty"`
	Percentile75 *float64 `json:"percentile75,omitempty"`
}

type MarketPosition struct {
	Percentile            float64 `json:"percentile"`
	NationalAverage       float64 `json:"nationalAverage"`
	CityPremiumPercentage float64 `json:"cityPremiumPercentage"`
}

type EarningProjection struct {
	CurrentYear             float64 `json:"currentYear"`
	Year3                   float64 `json:"year3"`
	Year5                   float64 `json:"year5"`
	AverageAnnualGrowthRate float64 `json:"averageAnnualGrowthRate"`
}

type SkillImpact struct {
	Skill              string  `json:"skill"`
	SalaryIncrease     float64 `json:"salaryIncrease"`
	PercentageIncrease float64 `json:"percentageIncrease"`
	Demand             string  `json:"demand"` // high | medium | low
}

type LocationComparison struct {
	City                 string  `json:"city"`
	AverageSalary        float64 `json:"averageSalary"`
	PercentageDifference float64 `json:"percentageDifference"`
}

type IndustryBenchmark struct {
	Industry             string  `json:"industry"`
	AverageSalary        float64 `json:"averageSalary"`
	PercentageDifference float64 `json:"percentageDifference"`
	GrowthTrend          string  `json:"growthTrend"` // rising | stable | declining
}

type TimeToTarget struct {
	TargetSalary              float64 `json:"targetSalary"`
	YearsWithAvgGrowth        float64 `json:"yearsWithAvgGrowth"`
	YearsWithAggressiveGrowth float64 `json:"yearsWithAggressiveGrowth"`
	YearsWithSkillUpgrades    float64 `json:"yearsWithSkillUpgrades"`
	AvgGrowthRate             float64 `json:"avgGrowthRate"`
	AggressiveGrowthRate      float64 `json:"aggressiveGrowthRate"`
}

// AnalysisResult is what the API returns and what the cache stores.
type AnalysisResult struct {
	ID               string      `json:"id"`
	Verdict          Verdict     `json:"verdict"`
	SalaryRange      SalaryRange `json:"salaryRange"`
	CurrentSalary    *int64      `json:"currentSalary,omitempty"`
	Difference       float64     `json:"difference"`
	DifferenceAmount *float64    `json:"differenceAmount,omitempty"`
	Confidence       float64     `json:"confidence"`
	Recommendations  []string    `json:"recommendations"`
	Reasoning        string      `json:"reasoning,omitempty"`
	MarketInsights   string      `json:"marketInsights,omitempty"`
	Currency         string      `json:"currency"`
	CreatedAt        time.Time   `json:"createdAt"`

	MarketPosition      *MarketPosition      `json:"marketPosition,omitempty"`
	EarningProjection   *EarningProjection   `json:"earningProjection,omitempty"`
	TopSkillImpacts     []SkillImpact        `json:"topSkillImpacts,omitempty"`
	LocationComparisons []LocationComparison `json:"locationComparisons,omitempty"`
	IndustryBenchmarks  []IndustryBenchmark  `json:"industryBenchmarks,omitempty"`
	TimeToTarget        *TimeToTarget        `json:"timeToTarget,omitempty"`
}
