package services

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SeniorityBand is one of the five experience tiers used to calibrate the AI.
type SeniorityBand struct {
	Label    string
	Guidance string
	MinYears int
	MaxYears int // inclusive; -1 means open-ended
}

var seniorityBands = []SeniorityBand{
	{"Junior/Entry-level", "Entry-level salaries, typically at lower end of market range", 0, 2},
	{"Mid-level", "Mid-career salaries, typically around median", 3, 5},
	{"Senior", "Senior-level salaries, typically above median (60th-80th percentile)", 6, 10},
	{"Staff/Principal", "Staff/Principal-level salaries, typically in 75th-90th percentile", 11, 15},
	{"Distinguished/Architect", "Architect/Distinguished-level salaries, typically in 85th-95th percentile or higher", 16, -1},
}

// SeniorityFor maps years of experience onto a band.
func SeniorityFor(years int) SeniorityBand {
	if years < 0 {
		return seniorityBands[0]
	}
	for _, b := range seniorityBands {
		if years >= b.MinYears && (b.MaxYears < 0 || years <= b.MaxYears) {
			return b
		}
	}
	return seniorityBands[len(seniorityBands)-1]
}

type benchmarkTable struct {
	title       string
	bands       []string
	multTitle   string
	multipliers []string
	floors      []string
}

var indiaBenchmarks = benchmarkTable{
	title: "**IMPORTANT SALARY BENCHMARKS FOR INDIA (Annual, in Lakhs ₹):**",
	bands: []string{
		"Junior/Entry (0-2 YOE): ₹4-8 Lakhs (₹400,000 - ₹800,000)",
		"Mid-level (3-5 YOE): ₹10-18 Lakhs (₹1,000,000 - ₹1,800,000)",
		"Senior (6-10 YOE): ₹18-35 Lakhs (₹1,800,000 - ₹3,500,000)",
		"Staff/Principal (11-15 YOE): ₹30-60 Lakhs (₹3,000,000 - ₹6,000,000)",
		"Architect/Distinguished (16+ YOE): ₹40-80+ Lakhs (₹4,000,000 - ₹8,000,000+)",
	},
	multTitle: "**MULTIPLIERS FOR INDIA:**",
	multipliers: []string{
		"Tier-1 cities (Bangalore, Mumbai, Delhi NCR): +30-50% above base",
		"High-value tech skills (Cloud, AI/ML, System Design, Leadership): +20-40%",
		"Startup/Tech industry: +20-30% compared to traditional sectors",
	},
	floors: []string{
		"If YOE >= 10: min_salary MUST be >= ₹1,500,000 (₹15 Lakhs)",
		"If YOE >= 15: min_salary MUST be >= ₹2,500,000 (₹25 Lakhs)",
		`If YOE >= 15 and role contains "Architect" or "Principal": min_salary MUST be >= ₹3,500,000 (₹35 Lakhs)`,
		"Median should be 50-80% higher than min_salary (not just 20-30%)",
		"Max salary should be 2-2.5x the min_salary for realistic range",
	},
}

var globalBenchmarks = benchmarkTable{
	title: "**SALARY BENCHMARKS (USD, Annual):**",
	bands: []string{
		"Junior/Entry (0-2 YOE): $50k-$80k",
		"Mid-level (3-5 YOE): $80k-$130k",
		"Senior (6-10 YOE): $130k-$200k",
		"Staff/Principal (11-15 YOE): $180k-$300k",
		"Architect/Distinguished (16+ YOE): $250k-$500k+",
	},
	multTitle: "**MULTIPLIERS:**",
	multipliers: []string{
		"High cost areas (SF, NYC, Seattle): +40-60%",
		"High-value skills: +20-30%",
		"Tech/FAANG companies: +30-50%",
	},
	floors: []string{
		"If YOE >= 10: min_salary MUST be >= $120,000",
		"If YOE >= 15: min_salary MUST be >= $200,000",
		`If YOE >= 15 and role contains "Architect" or "Principal": min_salary MUST be >= $250,000`,
		"Median should be 50-80% higher than min_salary",
		"Max salary should be 2-2.5x the min_salary for realistic range",
	},
}

func bullets(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders n with thousands separators, e.g. 1,250,000.
func FormatAmount(n int64) string {
	return amountPrinter.Sprintf("%d", n)
}

// BuildPrompt renders the profile into the instruction text sent to the model.
// The output depends only on the profile and year.
func BuildPrompt(p *Profile, year int) string {
	band := SeniorityFor(p.YearsExperience)
	table := globalBenchmarks
	if DetectRegion(p) == RegionIndia {
		table = indiaBenchmarks
	}

	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert salary analyst with access to comprehensive market data for %d. "+
		"Analyze this professional's salary and provide a detailed assessment.\n\n", year)

	b.WriteString("**PROFILE:**\n")
	fmt.Fprintf(&b, "- Job Title: %s\n", p.JobTitle)
	fmt.Fprintf(&b, "- Years of Experience: %d (%s)\n", p.YearsExperience, band.Label)
	fmt.Fprintf(&b, "- Location: %s\n", p.Location)
	if p.City != "" {
		fmt.Fprintf(&b, "- City: %s\n", p.City)
	}
	if p.Country != "" {
		fmt.Fprintf(&b, "- Country: %s\n", p.Country)
	}
	fmt.Fprintf(&b, "- Industry: %s\n", p.Industry)
	fmt.Fprintf(&b, "- Skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&b, "- Currency: %s (report every salary figure in %s)\n", p.Currency, p.Currency)
	if p.CurrentSalary != nil {
		fmt.Fprintf(&b, "Their current salary is %s %s.\n", p.Currency, FormatAmount(*p.CurrentSalary))
	}

	b.WriteString("\n**CRITICAL INSTRUCTIONS:**\n\n")
	b.WriteString(table.title + "\n")
	bullets(&b, table.bands)
	b.WriteString("\n" + table.multTitle + "\n")
	bullets(&b, table.multipliers)
	fmt.Fprintf(&b, "- For %d years experience, this is %s level.\n", p.YearsExperience, band.Label)

	b.WriteString("\n**SENIORITY CONTEXT:**\n")
	fmt.Fprintf(&b, "%s. With %d years of experience, this person is at %s level and their salary MUST reflect this seniority.\n",
		band.Guidance, p.YearsExperience, band.Label)

	b.WriteString("\n**VALIDATION RULES - YOUR PREDICTIONS MUST SATISFY THESE:**\n")
	bullets(&b, table.floors)

	b.WriteString("\n**TASK:**\n")
	fmt.Fprintf(&b, "Provide a comprehensive salary analysis based on current market conditions in %d. Consider:\n", year)
	b.WriteString("1. Geographic cost of living and local market rates\n")
	b.WriteString("2. Industry-specific compensation trends\n")
	fmt.Fprintf(&b, "3. **CRITICAL**: Experience level (%s for %d YOE) - this is the PRIMARY factor\n", band.Label, p.YearsExperience)
	b.WriteString("4. In-demand skills premium\n")
	b.WriteString("5. Company size and type variations\n")
	b.WriteString("6. Advanced analytics including market position, projections, skill impacts, location comparisons, industry benchmarks, and career timeline\n")

	b.WriteString("\n**OUTPUT FORMAT (JSON only, no markdown):**\n")
	b.WriteString(outputSchema(band.Label))

	b.WriteString("\n**FINAL CHECKLIST BEFORE RESPONDING:**\n")
	checks := []string{
		fmt.Sprintf("Does min_salary reflect %s level (%d YOE)?", band.Label, p.YearsExperience),
		fmt.Sprintf("Is the salary range realistic for %s?", p.Location),
		"Does median fall appropriately within the range (not too close to min)?",
		"Do percentile_25 and percentile_75 make sense within min-max range?",
		fmt.Sprintf("Are recommendations specific to %s career advancement?", band.Label),
		"Are all analytics fields populated (market_position, earning_projection, top_skill_impacts, location_comparisons, industry_benchmarks, time_to_target)?",
		"Do skill impacts represent skills NOT already in their profile?",
		"Are location comparisons realistic for similar roles?",
		fmt.Sprintf("Are earning projections based on realistic growth rates for %s?", band.Label),
	}
	for _, c := range checks {
		b.WriteString("✓ " + c + "\n")
	}

	b.WriteString("\nReturn ONLY the JSON object, no additional text or markdown formatting.")
	return b.String()
}

func outputSchema(level string) string {
	return `{
  "min_salary": <number>,
  "median_salary": <number>,
  "max_salary": <number>,
  "percentile_25": <number>,
  "percentile_75": <number>,
  "verdict": "<underpaid|fair|overpaid>",
  "difference_percentage": <number, positive if overpaid, negative if underpaid>,
  "confidence": <number 0-100>,
  "recommendations": [
    "Specific actionable recommendation 1",
    "Specific actionable recommendation 2",
    "Specific actionable recommendation 3"
  ],
  "reasoning": "Brief explanation emphasizing the ` + level + ` level and key salary factors",
  "market_insights": "Current market trends affecting ` + level + ` professionals in this role",

  "market_position": {
    "percentile": <number 0-100, where user ranks compared to similar professionals>,
    "national_average": <number, national/regional average salary for this role>,
    "city_premium_percentage": <number, how much higher/lower than national average, can be negative>
  },

  "earning_projection": {
    "current_year": <number, their current or estimated salary>,
    "year_3": <number, projected salary in 3 years with average growth>,
    "year_5": <number, projected salary in 5 years with average growth>,
    "average_annual_growth_rate": <number, typical annual growth rate percentage for this role>
  },

  "top_skill_impacts": [
    {
      "skill": "<high-value skill name not currently listed>",
      "salary_increase": <number, absolute salary increase potential>,
      "percentage_increase": <number, percentage increase potential>,
      "demand": "<high|medium|low>"
    }
    // Include 3-5 skills that would significantly boost salary
  ],

  "location_comparisons": [
    {
      "city": "<city name>",
      "average_salary": <number, average salary in that city>,
      "percentage_difference": <number, vs user's current location, can be negative>
    }
    // Include 3-4 comparable or higher-paying cities
  ],

  "industry_benchmarks": [
    {
      "industry": "<industry name>",
      "average_salary": <number, average salary in that industry for this role>,
      "percentage_difference": <number, vs user's current industry, can be negative>,
      "growth_trend": "<rising|stable|declining>"
    }
    // Include 3-4 industries (including theirs and alternatives)
  ],

  "time_to_target": {
    "target_salary": <number, typically the median_salary>,
    "years_with_avg_growth": <number, years to reach target with average growth>,
    "years_with_aggressive_growth": <number, years with job changes and negotiations>,
    "years_with_skill_upgrades": <number, years if they learn high-value skills>,
    "avg_growth_rate": <number, average annual growth percentage>,
    "aggressive_growth_rate": <number, aggressive growth percentage (15-25%)>
  }
}
`
}
