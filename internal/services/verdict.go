package services

import "github.com/justsurfingit/SalaryIQ/internal/models"

const (
	// aiDifferenceThreshold applies when no current salary was given.
	aiDifferenceThreshold = 20.0
	// medianBandThreshold applies inside [min, max] when a salary was given.
	medianBandThreshold = 25.0
)

// Classification is the classifier output.
type Classification struct {
	Verdict    models.Verdict
	Difference float64 // signed percent vs median (or the AI's own figure)
	// DifferenceAmount is current minus median; nil without a current salary.
	DifferenceAmount *float64
}

// ClassifySalary turns the AI estimate into a verdict. The two branches use
// different thresholds on purpose: with a known salary the range is checked
// first, without one only the AI-supplied percentage is available.
func ClassifySalary(current *int64, min, median, max, aiDifference float64) Classification {
	if current == nil {
		return Classification{
			Verdict:    classifyByAIDifference(aiDifference),
			Difference: aiDifference,
		}
	}
	return classifyAgainstRange(float64(*current), min, median, max)
}

func classifyByAIDifference(pct float64) models.Verdict {
	switch {
	case pct < -aiDifferenceThreshold:
		return models.VerdictUnderpaid
	case pct > aiDifferenceThreshold:
		return models.VerdictOverpaid
	default:
		return models.VerdictFair
	}
}

func classifyAgainstRange(salary, min, median, max float64) Classification {
	var pct float64
	if median > 0 {
		pct = (salary - median) * 100 / median
	}
	amount := salary - median

	c := Classification{Difference: pct, DifferenceAmount: &amount}
	switch {
	case salary < min:
		c.Verdict = models.VerdictUnderpaid
	case salary > max:
		c.Verdict = models.VerdictOverpaid
	case pct < -medianBandThreshold:
		c.Verdict = models.VerdictUnderpaid
	case pct > medianBandThreshold:
		c.Verdict = models.VerdictOverpaid
	default:
		c.Verdict = models.VerdictFair
	}
	return c
}
