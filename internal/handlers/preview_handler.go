package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/SalaryIQ/internal/services"
	"github.com/sirupsen/logrus"
)

// PreviewHandler renders link-preview images.
type PreviewHandler struct {
	log logrus.FieldLogger
}

func NewPreviewHandler(log logrus.FieldLogger) *PreviewHandler {
	return &PreviewHandler{log: log}
}

// OGImage is GET /og. Missing or malformed parameters fall back to defaults.
func (h *PreviewHandler) OGImage(c *gin.Context) {
	params := services.OGParams{
		Verdict:    c.DefaultQuery("verdict", "fair"),
		Difference: queryPercent(c, "difference"),
		Min:        queryAmount(c, "min"),
		Max:        queryAmount(c, "max"),
		Currency:   c.DefaultQuery("currency", "USD"),
	}

	var buf bytes.Buffer
	if err := services.RenderOGImage(&buf, params); err != nil {
		h.log.WithError(err).Error("og image generation failed")
		c.String(http.StatusInternalServerError, "Failed to generate image")
		return
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func queryAmount(c *gin.Context, key string) int64 {
	f, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return 0
	}
	return int64(f)
}

func queryPercent(c *gin.Context, key string) string {
	f, err := strconv.ParseFloat(c.Query(key), 64)
	if err != nil {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// HealthCheck is GET /health
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
