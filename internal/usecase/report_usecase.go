package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/ports"
	"github.com/replywatch/replywatch/internal/service/logger"
)

// ReportRequest is the time window to analyze, in epoch seconds (inclusive)
type ReportRequest struct {
	From int64 `json:"from"`
	To   int64 `json:"to"`
}

// MetricsBlock is one set of response-time statistics, rounded to one
// decimal for presentation stability
type MetricsBlock struct {
	Count     int     `json:"count"`
	Mean      float64 `json:"mean"`
	Median    float64 `json:"median"`
	P90       float64 `json:"p90"`
	WithinSLA int     `json:"within_sla"`
	SLARate   float64 `json:"sla_rate"`
}

// UserMetrics is the statistics block for a single agent
type UserMetrics struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	MetricsBlock
}

// ReportResponse is the complete analytics result handed to the
// presentation layer. Complete is false when the feed returned partial
// data, so "no traffic" and "fetch degraded" stay distinguishable.
type ReportResponse struct {
	UserMetrics          []UserMetrics `json:"user_metrics"`
	Overall              MetricsBlock  `json:"overall"`
	TotalEventsProcessed int           `json:"total_events_processed"`
	SLAMinutes           int           `json:"sla_minutes"`
	Complete             bool          `json:"complete"`
	GeneratedAt          time.Time     `json:"generated_at"`
}

// ReportUseCase runs the response-time pipeline: fetch, group, pair per
// entity, aggregate. Every invocation is stateless; nothing carries over
// between runs except the optional rendered-report cache.
type ReportUseCase struct {
	feed           ports.EventFeed
	settings       ports.SettingsRepository
	directory      ports.UserDirectory
	cache          ports.ReportCache
	cacheTTL       time.Duration
	location       *time.Location
	maxConcurrency int
	logger         logger.Logger
}

// NewReportUseCase wires the report pipeline. Cache and directory may be
// nil; the pipeline then skips caching and falls back to generic agent
// names.
func NewReportUseCase(
	feed ports.EventFeed,
	settings ports.SettingsRepository,
	directory ports.UserDirectory,
	cache ports.ReportCache,
	cacheTTL time.Duration,
	location *time.Location,
	maxConcurrency int,
	log logger.Logger,
) *ReportUseCase {
	if location == nil {
		location = time.UTC
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	if log == nil {
		log = logger.NewNoop()
	}
	return &ReportUseCase{
		feed:           feed,
		settings:       settings,
		directory:      directory,
		cache:          cache,
		cacheTTL:       cacheTTL,
		location:       location,
		maxConcurrency: maxConcurrency,
		logger:         log,
	}
}

// GenerateReport produces per-agent and overall response-time statistics
// for the requested window. Only invalid input fails; feed, cache and
// directory problems degrade into a best-effort result.
func (uc *ReportUseCase) GenerateReport(ctx context.Context, req ReportRequest) (*ReportResponse, error) {
	if req.From <= 0 || req.To <= 0 {
		return nil, domain.ErrMissingTimeWindow
	}
	if req.From >= req.To {
		return nil, domain.ErrInvalidTimeWindow
	}

	schedule := uc.loadSchedule(ctx)
	hours := schedule.Hours()

	cacheKey := reportCacheKey(req, hours, uc.location)
	if uc.cache != nil {
		if payload, ok := uc.cache.Get(ctx, cacheKey); ok {
			var cached ReportResponse
			if err := json.Unmarshal(payload, &cached); err == nil {
				uc.logger.Debug(ctx, "report served from cache", map[string]interface{}{
					"from": req.From,
					"to":   req.To,
				})
				return &cached, nil
			}
		}
	}

	fetched := uc.feed.FetchEvents(ctx, domain.ReportEventTypes, req.From, req.To)
	grouped := domain.GroupEvents(fetched.Events)
	pairs := uc.pairAll(ctx, grouped, schedule)

	perUser, overall := domain.AggregatePairs(pairs, hours.SLAMinutes)
	response := uc.buildResponse(ctx, perUser, overall, hours.SLAMinutes, len(fetched.Events), fetched.Complete)

	// Partial results are not worth caching; the next run may see more data
	if uc.cache != nil && fetched.Complete {
		if payload, err := json.Marshal(response); err == nil {
			uc.cache.Set(ctx, cacheKey, payload, uc.cacheTTL)
		}
	}

	uc.logger.Info(ctx, "report generated", map[string]interface{}{
		"from":     req.From,
		"to":       req.To,
		"events":   len(fetched.Events),
		"pairs":    overall.Count,
		"complete": fetched.Complete,
	})

	return response, nil
}

// loadSchedule resolves the effective calendar. Storage problems degrade
// to the default calendar rather than failing the report.
func (uc *ReportUseCase) loadSchedule(ctx context.Context) *domain.Schedule {
	hours := domain.DefaultBusinessHours()
	if uc.settings != nil {
		stored, err := uc.settings.GetBusinessHours(ctx)
		if err != nil {
			uc.logger.Warn(ctx, "failed to load business hours, using defaults", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			hours = stored
		}
	}

	schedule, err := domain.NewSchedule(hours, uc.location)
	if err != nil {
		uc.logger.Warn(ctx, "stored business hours invalid, using defaults", map[string]interface{}{
			"error": err.Error(),
		})
		schedule, _ = domain.NewSchedule(domain.DefaultBusinessHours(), uc.location)
	}
	return schedule
}

// pairAll runs the pairing engine concurrently across entities. Entities
// are fully independent, so the only shared state is the result slice.
func (uc *ReportUseCase) pairAll(ctx context.Context, grouped domain.GroupedEvents, schedule *domain.Schedule) []domain.ResponsePair {
	var (
		mu    sync.Mutex
		pairs []domain.ResponsePair
	)

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(uc.maxConcurrency)

	for _, entityID := range grouped.EntityIDs() {
		entityID := entityID
		g.Go(func() error {
			entityPairs := domain.PairEntity(
				entityID,
				grouped.Incoming[entityID],
				grouped.Outgoing[entityID],
				grouped.Ownership[entityID],
				schedule,
			)
			if len(entityPairs) > 0 {
				mu.Lock()
				pairs = append(pairs, entityPairs...)
				mu.Unlock()
			}
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes
	_ = g.Wait()

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].EntityID != pairs[j].EntityID {
			return pairs[i].EntityID < pairs[j].EntityID
		}
		return pairs[i].IncomingAt < pairs[j].IncomingAt
	})

	return pairs
}

func (uc *ReportUseCase) buildResponse(
	ctx context.Context,
	perUser map[int64]domain.LatencySummary,
	overall domain.LatencySummary,
	slaMinutes int,
	totalEvents int,
	complete bool,
) *ReportResponse {
	ids := make([]int64, 0, len(perUser))
	for id := range perUser {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	names := uc.resolveNames(ctx, ids)

	users := make([]UserMetrics, 0, len(ids))
	for _, id := range ids {
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("Agent %d", id)
		}
		users = append(users, UserMetrics{
			UserID:       id,
			Name:         name,
			MetricsBlock: roundSummary(perUser[id]),
		})
	}

	return &ReportResponse{
		UserMetrics:          users,
		Overall:              roundSummary(overall),
		TotalEventsProcessed: totalEvents,
		SLAMinutes:           slaMinutes,
		Complete:             complete,
		GeneratedAt:          time.Now().UTC(),
	}
}

func (uc *ReportUseCase) resolveNames(ctx context.Context, ids []int64) map[int64]string {
	if uc.directory == nil || len(ids) == 0 {
		return map[int64]string{}
	}
	names, err := uc.directory.DisplayNames(ctx, ids)
	if err != nil {
		uc.logger.Warn(ctx, "failed to resolve agent names", map[string]interface{}{
			"error": err.Error(),
		})
		return map[int64]string{}
	}
	return names
}

func roundSummary(s domain.LatencySummary) MetricsBlock {
	return MetricsBlock{
		Count:     s.Count,
		Mean:      round1(s.Mean),
		Median:    round1(s.Median),
		P90:       round1(s.P90),
		WithinSLA: s.WithinSLA,
		SLARate:   round1(s.SLARate),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// reportCacheKey digests the window and effective calendar so a settings
// change invalidates previously cached reports.
func reportCacheKey(req ReportRequest, hours domain.BusinessHours, loc *time.Location) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf(
		"%d:%d:%d:%d:%v:%d:%s",
		req.From, req.To,
		hours.StartHour, hours.EndHour, hours.WeekdayList(), hours.SLAMinutes,
		loc.String(),
	)))
	return hex.EncodeToString(sum[:])
}
