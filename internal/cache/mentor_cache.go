package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/mentorify/mentorify-api/pkg/logger"
	"github.com/mentorify/mentorify-api/pkg/metrics"
)

// MentorDataSource defines the interface for mentor directory data fetching
type MentorDataSource interface {
	FetchAllMentorsFromDB(ctx context.Context) ([]*models.Mentor, error)
	FetchMentorFromDB(ctx context.Context, id uuid.UUID) (*models.Mentor, error)
}

const (
	mentorKeyPrefix  = "mentor:id:"
	allMentorsKey    = "mentor:all"
	cacheCheckPeriod = 10 * time.Second
	maxRetries       = 3
	initialRetryWait = 2 * time.Second
)

// MentorCache keeps the public mentor directory in memory so the
// mentor-data endpoint never has to aggregate reviews per request.
type MentorCache struct {
	cache       *gocache.Cache
	dataSource  MentorDataSource
	mu          sync.RWMutex
	refreshing  bool
	ready       bool
	ttl         time.Duration
	lastRefresh time.Time
}

// NewMentorCache creates a new mentor directory cache
func NewMentorCache(dataSource MentorDataSource, ttlSeconds int) *MentorCache {
	return &MentorCache{
		cache:      gocache.New(gocache.NoExpiration, cacheCheckPeriod),
		dataSource: dataSource,
		ttl:        time.Duration(ttlSeconds) * time.Second,
	}
}

// Initialize performs initial cache population (synchronous, blocks until ready).
// Should be called during application startup before accepting requests.
func (mc *MentorCache) Initialize() error {
	logger.Info("Initializing mentor cache...")
	startTime := time.Now()

	if err := mc.refreshWithRetry(); err != nil {
		logger.Error("Failed to initialize mentor cache", zap.Error(err))
		return err
	}

	mc.mu.Lock()
	mc.ready = true
	mc.lastRefresh = time.Now()
	mc.mu.Unlock()

	logger.Info("Mentor cache initialized successfully",
		zap.Duration("duration", time.Since(startTime)))

	go mc.schedulePeriodicRefresh()

	return nil
}

// IsReady returns true if the cache has been successfully initialized
func (mc *MentorCache) IsReady() bool {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return mc.ready
}

// GetByID retrieves a single mentor from cache without touching the database
func (mc *MentorCache) GetByID(id uuid.UUID) (*models.Mentor, error) {
	if !mc.IsReady() {
		return nil, fmt.Errorf("cache not initialized")
	}

	data, found := mc.cache.Get(mentorKeyPrefix + id.String())
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_by_id").Inc()
		return nil, fmt.Errorf("mentor not found")
	}

	metrics.CacheHits.WithLabelValues("mentor_by_id").Inc()

	mentor, ok := data.(*models.Mentor)
	if !ok {
		logger.Error("Invalid cache data type", zap.String("mentor_id", id.String()))
		mc.cache.Delete(mentorKeyPrefix + id.String())
		return nil, fmt.Errorf("invalid cache data")
	}

	return mentor, nil
}

// Get retrieves the full mentor directory from cache.
// Returns immediately; an expired list yields an empty slice, not a DB hit.
func (mc *MentorCache) Get() ([]*models.Mentor, error) {
	if !mc.IsReady() {
		return nil, fmt.Errorf("cache not initialized")
	}

	idsData, found := mc.cache.Get(allMentorsKey)
	if !found {
		metrics.CacheMisses.WithLabelValues("mentor_all").Inc()
		logger.Warn("Mentor directory list not in cache (expired), returning empty")
		return []*models.Mentor{}, nil
	}

	ids, ok := idsData.([]string)
	if !ok {
		logger.Error("Invalid cache data type for mentor directory list")
		return []*models.Mentor{}, nil
	}

	metrics.CacheHits.WithLabelValues("mentor_all").Inc()

	mentors := make([]*models.Mentor, 0, len(ids))
	for _, id := range ids {
		data, found := mc.cache.Get(mentorKeyPrefix + id)
		if !found {
			continue
		}
		if mentor, ok := data.(*models.Mentor); ok {
			mentors = append(mentors, mentor)
		}
	}

	return mentors, nil
}

// UpdateSingleMentor refetches one mentor after a profile edit, picture
// upload or new review, so the directory reflects it without a full refresh.
func (mc *MentorCache) UpdateSingleMentor(ctx context.Context, id uuid.UUID) error {
	if !mc.IsReady() {
		return fmt.Errorf("cache not initialized")
	}

	mentor, err := mc.dataSource.FetchMentorFromDB(ctx, id)
	if err != nil {
		logger.Error("Failed to fetch mentor from database",
			zap.String("mentor_id", id.String()),
			zap.Error(err))
		return err
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.cache.Set(mentorKeyPrefix+id.String(), mentor, gocache.NoExpiration)
	mc.ensureMentorInListLocked(id.String())

	logger.Info("Mentor cache entry updated", zap.String("mentor_id", id.String()))
	return nil
}

// ForceRefresh triggers a background refresh and returns current data immediately
func (mc *MentorCache) ForceRefresh() ([]*models.Mentor, error) {
	go func() {
		if err := mc.refreshInBackground(); err != nil {
			logger.Error("Background refresh failed", zap.Error(err))
		}
	}()

	return mc.Get()
}

func (mc *MentorCache) schedulePeriodicRefresh() {
	ticker := time.NewTicker(mc.ttl)
	defer ticker.Stop()

	for range ticker.C {
		if err := mc.refreshInBackground(); err != nil {
			logger.Error("Scheduled cache refresh failed", zap.Error(err))
		}
	}
}

func (mc *MentorCache) refreshInBackground() error {
	mc.mu.Lock()
	if mc.refreshing {
		mc.mu.Unlock()
		logger.Debug("Refresh already in progress, skipping")
		return nil
	}
	mc.refreshing = true
	mc.mu.Unlock()

	defer func() {
		mc.mu.Lock()
		mc.refreshing = false
		mc.mu.Unlock()
	}()

	startTime := time.Now()

	mentors, err := mc.dataSource.FetchAllMentorsFromDB(context.Background())
	if err != nil {
		logger.Error("Failed to fetch mentors in background refresh", zap.Error(err))
		return err
	}

	mc.populateCache(mentors)

	mc.mu.Lock()
	mc.lastRefresh = time.Now()
	mc.mu.Unlock()

	logger.Info("Background refresh completed",
		zap.Int("count", len(mentors)),
		zap.Duration("duration", time.Since(startTime)))

	return nil
}

// refreshWithRetry performs a refresh with exponential backoff
func (mc *MentorCache) refreshWithRetry() error {
	var err error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			waitTime := initialRetryWait * time.Duration(1<<uint(attempt-1))
			logger.Info("Retrying cache refresh",
				zap.Int("attempt", attempt+1),
				zap.Int("max_attempts", maxRetries),
				zap.Duration("wait_time", waitTime))
			time.Sleep(waitTime)
		}

		mentors, fetchErr := mc.dataSource.FetchAllMentorsFromDB(context.Background())
		if fetchErr != nil {
			err = fetchErr
			logger.Error("Cache refresh attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
			continue
		}

		mc.populateCache(mentors)
		return nil
	}

	return fmt.Errorf("failed to refresh cache after %d attempts: %w", maxRetries, err)
}

func (mc *MentorCache) populateCache(mentors []*models.Mentor) {
	ids := make([]string, 0, len(mentors))

	for _, mentor := range mentors {
		// Individual entries never expire; expiration is controlled
		// at the directory-list level.
		mc.cache.Set(mentorKeyPrefix+mentor.ID.String(), mentor, gocache.NoExpiration)
		ids = append(ids, mentor.ID.String())
	}

	mc.cache.Set(allMentorsKey, ids, mc.ttl)

	metrics.CacheSize.WithLabelValues("mentors").Set(float64(len(mentors)))

	logger.Info("Cache populated successfully", zap.Int("count", len(mentors)))
}

// ensureMentorInListLocked adds the id to the directory list if missing.
// MUST be called with mc.mu locked.
func (mc *MentorCache) ensureMentorInListLocked(id string) {
	idsData, found := mc.cache.Get(allMentorsKey)
	if !found {
		return
	}

	ids, ok := idsData.([]string)
	if !ok {
		return
	}

	for _, existing := range ids {
		if existing == id {
			return
		}
	}

	mc.cache.Set(allMentorsKey, append(ids, id), mc.ttl)
}

// Clear clears the entire cache
func (mc *MentorCache) Clear() {
	mc.cache.Flush()
	logger.Info("Mentor cache cleared")
}
