package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/SalaryIQ/internal/dtos"
	"github.com/justsurfingit/SalaryIQ/internal/services"
	"github.com/sirupsen/logrus"
)

const genericAnalyzeError = "Failed to analyze salary. Please try again."

// SalaryHandler serves the analysis and result lookup routes.
type SalaryHandler struct {
	Analysis *services.AnalysisService
	BaseURL  string
	log      logrus.FieldLogger
}

func NewSalaryHandler(analysis *services.AnalysisService, baseURL string, log logrus.FieldLogger) *SalaryHandler {
	return &SalaryHandler{Analysis: analysis, BaseURL: baseURL, log: log}
}

// Analyze is the POST /analyze endpoint
func (h *SalaryHandler) Analyze(c *gin.Context) {
	var req dtos.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dtos.AnalysisResponse{
			Error:   "Invalid form data",
			Details: []string{"formData is required"},
		})
		return
	}

	result, cached, err := h.Analysis.Analyze(c.Request.Context(), req.FormData)
	if err != nil {
		h.writeAnalyzeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dtos.AnalysisResponse{
		Success: true,
		Data:    result,
		Cached:  &cached,
	})
}

func (h *SalaryHandler) writeAnalyzeError(c *gin.Context, err error) {
	var (
		verr *services.ValidationError
		rerr *services.RateLimitError
	)

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, dtos.AnalysisResponse{Error: "Invalid form data", Details: verr.Messages()})
	case errors.As(err, &rerr):
		c.Header("Retry-After", strconv.Itoa(rerr.RetryAfterSeconds()))
		c.JSON(http.StatusTooManyRequests, dtos.AnalysisResponse{Error: rerr.Message})
	case errors.Is(err, services.ErrUnparsableResponse):
		h.log.WithError(err).Error("analysis failed")
		c.JSON(http.StatusInternalServerError, dtos.AnalysisResponse{Error: services.ErrUnparsableResponse.Error()})
	default:
		h.log.WithError(err).Error("analysis failed")
		c.JSON(http.StatusInternalServerError, dtos.AnalysisResponse{Error: genericAnalyzeError})
	}
}

// MethodNotAllowed answers GET /analyze.
func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"success": false, "error": "Method not allowed"})
}

// GetResult is GET /results/:id
func (h *SalaryHandler) GetResult(c *gin.Context) {
	result, err := h.Analysis.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).Error("result lookup failed")
		c.JSON(http.StatusInternalServerError, dtos.AnalysisResponse{Error: "Failed to fetch result"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, dtos.AnalysisResponse{Error: "Result not found or expired"})
		return
	}
	c.JSON(http.StatusOK, dtos.AnalysisResponse{Success: true, Data: result})
}

// GetMetadata is GET /results/:id/metadata
func (h *SalaryHandler) GetMetadata(c *gin.Context) {
	meta, err := h.Analysis.Metadata(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).Error("metadata lookup failed")
		c.JSON(http.StatusInternalServerError, dtos.MetadataResponse{Error: "Failed to fetch result metadata"})
		return
	}
	if meta == nil {
		c.JSON(http.StatusNotFound, dtos.MetadataResponse{Error: "Result not found or expired"})
		return
	}
	c.JSON(http.StatusOK, dtos.MetadataResponse{Success: true, Data: meta})
}

// GetShareLinks is GET /results/:id/share
func (h *SalaryHandler) GetShareLinks(c *gin.Context) {
	result, err := h.Analysis.Result(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).Error("share lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch result"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Result not found or expired"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": services.ShareLinksFor(h.BaseURL, result)})
}

// Stats is GET /stats
func (h *SalaryHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Analysis.Stats(c.Request.Context()))
}
