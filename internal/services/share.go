package services

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/justsurfingit/SalaryIQ/internal/dtos"
	"github.com/justsurfingit/SalaryIQ/internal/models"
)

// FormatPercentage renders a signed percentage with one decimal, e.g. +12.5%.
func FormatPercentage(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, v)
}

func shareText(r *models.AnalysisResult) string {
	var verdict string
	switch r.Verdict {
	case models.VerdictUnderpaid:
		diff := r.Difference
		if diff < 0 {
			diff = -diff
		}
		verdict = fmt.Sprintf("I'm %s UNDERPAID", FormatPercentage(diff))
	case models.VerdictOverpaid:
		verdict = fmt.Sprintf("I'm %s ABOVE market rate", FormatPercentage(r.Difference))
	default:
		verdict = "I'm getting paid fairly for my role"
	}
	return verdict + "! Find out your true market value at"
}

// OGImageURL is the preview image URL for a metadata projection.
func OGImageURL(baseURL string, m *dtos.ResultMetadata) string {
	q := url.Values{}
	q.Set("verdict", string(m.Verdict))
	q.Set("difference", strconv.FormatFloat(m.Difference, 'f', 1, 64))
	q.Set("min", strconv.FormatFloat(m.Min, 'f', 0, 64))
	q.Set("max", strconv.FormatFloat(m.Max, 'f', 0, 64))
	q.Set("currency", m.Currency)
	return baseURL + "/og?" + q.Encode()
}

// ShareLinksFor builds the share affordances of a stored result.
func ShareLinksFor(baseURL string, r *models.AnalysisResult) dtos.ShareLinks {
	shareURL := baseURL + "/results/" + url.PathEscape(r.ID)
	text := shareText(r)

	twitter := url.Values{}
	twitter.Set("text", text)
	twitter.Set("url", shareURL)

	linkedIn := url.Values{}
	linkedIn.Set("url", shareURL)

	return dtos.ShareLinks{
		ShareURL:    shareURL,
		OGImageURL:  OGImageURL(baseURL, MetadataFor(r)),
		ShareText:   text,
		TwitterURL:  "https://twitter.com/intent/tweet?" + twitter.Encode(),
		LinkedInURL: "https://www.linkedin.com/sharing/share-offsite/?" + linkedIn.Encode(),
	}
}
