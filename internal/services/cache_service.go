package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/justsurfingit/SalaryIQ/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ResultTTL is how long an analysis stays resolvable.
const ResultTTL = 7 * 24 * time.Hour

// ResultStore keeps analysis results under two keys: the profile fingerprint
// and the result id. Lookups return (nil, nil) when the entry is absent or
// expired, even if the row still physically exists.
type ResultStore interface {
	Get(ctx context.Context, fingerprint string) (*models.AnalysisResult, error)
	GetByID(ctx context.Context, id string) (*models.AnalysisResult, error)
	Put(ctx context.Context, fingerprint string, result *models.AnalysisResult, ttl time.Duration) error
	Delete(ctx context.Context, fingerprint string) error
	Count(ctx context.Context) (int64, error)
	CleanExpired(ctx context.Context) (int64, error)
}

// ErrCorruptEntry wraps a stored row whose result cannot be decoded.
var ErrCorruptEntry = errors.New("corrupt cache entry")

func decodeResult(raw []byte) (*models.AnalysisResult, error) {
	var r models.AnalysisResult
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptEntry, err)
	}
	return &r, nil
}

// CacheService is the Postgres-backed store. Share-link reads and cleanup go
// through Admin, which is the elevated connection when one is configured.
type CacheService struct {
	DB    *gorm.DB
	Admin *gorm.DB
	now   func() time.Time
}

// NewCacheService returns a store on db. A nil admin reuses db.
func NewCacheService(db, admin *gorm.DB) *CacheService {
	if admin == nil {
		admin = db
	}
	return &CacheService{DB: db, Admin: admin, now: time.Now}
}

func (s *CacheService) first(ctx context.Context, db *gorm.DB, column, value string) (*models.AnalysisResult, error) {
	var row models.AnalysisCache
	err := db.WithContext(ctx).
		Where(column+" = ? AND expires_at > ?", value, s.now()).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeResult(row.AIResponse)
}

func (s *CacheService) Get(ctx context.Context, fingerprint string) (*models.AnalysisResult, error) {
	return s.first(ctx, s.DB, "cache_key", fingerprint)
}

func (s *CacheService) GetByID(ctx context.Context, id string) (*models.AnalysisResult, error) {
	return s.first(ctx, s.Admin, "result_id", id)
}

// Put upserts on cache_key, replacing the stored result and resetting expiry.
func (s *CacheService) Put(ctx context.Context, fingerprint string, result *models.AnalysisResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	now := s.now()
	row := models.AnalysisCache{
		CreatedAt:  now,
		CacheKey:   fingerprint,
		ResultID:   result.ID,
		AIResponse: datatypes.JSON(raw),
		ExpiresAt:  now.Add(ttl),
	}
	return s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"result_id", "ai_response", "created_at", "expires_at"}),
	}).Create(&row).Error
}

func (s *CacheService) Delete(ctx context.Context, fingerprint string) error {
	return s.DB.WithContext(ctx).Where("cache_key = ?", fingerprint).Delete(&models.AnalysisCache{}).Error
}

// Count returns the number of stored analyses, expired rows included.
func (s *CacheService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.AnalysisCache{}).Count(&n).Error
	return n, err
}

// CleanExpired deletes rows past expiry and returns how many were removed.
func (s *CacheService) CleanExpired(ctx context.Context) (int64, error) {
	res := s.Admin.WithContext(ctx).Where("expires_at <= ?", s.now()).Delete(&models.AnalysisCache{})
	return res.RowsAffected, res.Error
}

// MemoryStore is an in-process ResultStore for tests and local runs.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]*models.AnalysisCache
	now  func() time.Time
}

// NewMemoryStore returns an empty store. A nil clock uses time.Now.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryStore{rows: make(map[string]*models.AnalysisCache), now: now}
}

func (m *MemoryStore) Get(ctx context.Context, fingerprint string) (*models.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	row, ok := m.rows[fingerprint]
	if !ok || row.IsExpired(m.now()) {
		return nil, nil
	}
	return decodeResult(row.AIResponse)
}

func (m *MemoryStore) GetByID(ctx context.Context, id string) (*models.AnalysisResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	for _, row := range m.rows {
		if row.ResultID == id && !row.IsExpired(now) {
			return decodeResult(row.AIResponse)
		}
	}
	return nil, nil
}

func (m *MemoryStore) Put(ctx context.Context, fingerprint string, result *models.AnalysisResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.rows[fingerprint] = &models.AnalysisCache{
		CreatedAt:  now,
		CacheKey:   fingerprint,
		ResultID:   result.ID,
		AIResponse: datatypes.JSON(raw),
		ExpiresAt:  now.Add(ttl),
	}
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, fingerprint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, fingerprint)
	return nil
}

func (m *MemoryStore) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.rows)), nil
}

func (m *MemoryStore) CleanExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var n int64
	for key, row := range m.rows {
		if row.IsExpired(now) {
			delete(m.rows, key)
			n++
		}
	}
	return n, nil
}
