package dtos

import "github.com/justsurfingit/SalaryIQ/internal/models"

// SalaryFormData is the raw profile as submitted by the form.
// Validation runs on the trimmed copy, see services.NormalizeProfile.
type SalaryFormData struct {
	JobTitle        string   `json:"jobTitle" validate:"min=2,max=100,jobtitle"`
	YearsExperience *int     `json:"yearsExperience" validate:"required,min=0,max=50"`
	Location        string   `json:"location" validate:"min=2,max=100"`
	Country         string   `json:"country,omitempty"`
	City            string   `json:"city,omitempty"`
	Industry        string   `json:"industry" validate:"min=2,max=50"`
	Skills          []string `json:"skills" validate:"min=1,max=20,dive,min=2,max=50"`
	CurrentSalary   *int64   `json:"currentSalary,omitempty" validate:"omitempty,gt=0,max=10000000"`
	Currency        string   `json:"currency" validate:"len=3"`
}

// AnalysisRequest is the POST /analyze body.
type AnalysisRequest struct {
	FormData *SalaryFormData `json:"formData" binding:"required"`
}

// AnalysisResponse wraps every analysis and result lookup reply.
type AnalysisResponse struct {
	Success bool                   `json:"success"`
	Data    *models.AnalysisResult `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Details []string               `json:"details,omitempty"`
	Cached  *bool                  `json:"cached,omitempty"`
}

// ResultMetadata is the reduced projection used for link previews.
type ResultMetadata struct {
	Verdict    models.Verdict `json:"verdict"`
	Difference float64        `json:"difference"`
	Min        float64        `json:"min"`
	Max        float64        `json:"max"`
	Currency   string         `json:"currency"`
}

type MetadataResponse struct {
	Success bool            `json:"success"`
	Data    *ResultMetadata `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// ShareLinks are the share affordances for one stored result.
type ShareLinks struct {
	ShareURL    string `json:"shareUrl"`
	OGImageURL  string `json:"ogImageUrl"`
	ShareText   string `json:"shareText"`
	TwitterURL  string `json:"twitterUrl"`
	LinkedInURL string `json:"linkedInUrl"`
}

type WindowUsage struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

type RateLimitStatus struct {
	RPM WindowUsage `json:"rpm"`
	RPD WindowUsage `json:"rpd"`
}

// StatsResponse is the GET /stats reply.
type StatsResponse struct {
	TotalAnalyses int64           `json:"totalAnalyses"`
	RateLimit     RateLimitStatus `json:"rateLimit"`
}
