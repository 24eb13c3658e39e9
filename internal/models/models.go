package models

import (
	"time"

	"gorm.io/datatypes"
)

// AnalysisCache is one stored analysis. The row is reachable by two keys:
// CacheKey (profile fingerprint, used for deduplication) and ResultID
// (the analysis id embedded in share links). Both lookups honor ExpiresAt.
type AnalysisCache struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	CacheKey   string         `gorm:"uniqueIndex;size:64;not null" json:"cache_key"`
	ResultID   string         `gorm:"index;size:36;not null" json:"result_id"`
	AIResponse datatypes.JSON `gorm:"type:jsonb;not null" json:"ai_response"`
	ExpiresAt  time.Time      `gorm:"index;not null" json:"expires_at"`
}

func (AnalysisCache) TableName() string {
	return "analysis_cache"
}

// IsExpired reports whether the row is past its expiry at now.
func (c *AnalysisCache) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
