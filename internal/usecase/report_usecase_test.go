package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/ports"
)

type MockEventFeed struct {
	mock.Mock
}

func (m *MockEventFeed) FetchEvents(ctx context.Context, types []domain.EventType, from, to int64) ports.FetchResult {
	args := m.Called(ctx, types, from, to)
	return args.Get(0).(ports.FetchResult)
}

type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) GetBusinessHours(ctx context.Context) (domain.BusinessHours, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.BusinessHours), args.Error(1)
}

func (m *MockSettingsRepository) SaveBusinessHours(ctx context.Context, hours domain.BusinessHours) error {
	args := m.Called(ctx, hours)
	return args.Error(0)
}

type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) DisplayNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]string), args.Error(1)
}

type MockReportCache struct {
	mock.Mock
}

func (m *MockReportCache) Get(ctx context.Context, key string) ([]byte, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]byte), args.Bool(1)
}

func (m *MockReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	m.Called(ctx, key, payload, ttl)
}

func allHoursCalendar() domain.BusinessHours {
	return domain.BusinessHoursFromWeekdays(0, 24, 10, []int{0, 1, 2, 3, 4, 5, 6})
}

func newTestUseCase(feed ports.EventFeed, settings ports.SettingsRepository, directory ports.UserDirectory, cache ports.ReportCache) *ReportUseCase {
	return NewReportUseCase(feed, settings, directory, cache, time.Minute, time.UTC, 2, nil)
}

func TestReportUseCase_ValidatesWindow(t *testing.T) {
	uc := newTestUseCase(new(MockEventFeed), nil, nil, nil)

	_, err := uc.GenerateReport(context.Background(), ReportRequest{From: 0, To: 100})
	assert.ErrorIs(t, err, domain.ErrMissingTimeWindow)

	_, err = uc.GenerateReport(context.Background(), ReportRequest{From: 200, To: 100})
	assert.ErrorIs(t, err, domain.ErrInvalidTimeWindow)
}

func TestReportUseCase_GeneratesReport(t *testing.T) {
	feed := new(MockEventFeed)
	settings := new(MockSettingsRepository)
	directory := new(MockUserDirectory)

	settings.On("GetBusinessHours", mock.Anything).Return(allHoursCalendar(), nil)
	feed.On("FetchEvents", mock.Anything, domain.ReportEventTypes, int64(1000), int64(2000)).Return(ports.FetchResult{
		Events: []domain.Event{
			{Type: domain.EventTypeIncomingMessage, EntityID: 1, CreatedAt: 1100},
			{Type: domain.EventTypeOutgoingMessage, EntityID: 1, CreatedAt: 1400, ActorID: 42},
			{Type: domain.EventTypeIncomingMessage, EntityID: 2, CreatedAt: 1200},
			{Type: domain.EventTypeOutgoingMessage, EntityID: 2, CreatedAt: 2100, ActorID: 43},
		},
		Complete: true,
	})
	directory.On("DisplayNames", mock.Anything, []int64{42, 43}).Return(map[int64]string{42: "Alice"}, nil)

	uc := newTestUseCase(feed, settings, directory, nil)
	report, err := uc.GenerateReport(context.Background(), ReportRequest{From: 1000, To: 2000})

	assert.NoError(t, err)
	assert.True(t, report.Complete)
	assert.Equal(t, 4, report.TotalEventsProcessed)
	assert.Equal(t, 10, report.SLAMinutes)
	assert.Equal(t, 2, report.Overall.Count)

	if assert.Len(t, report.UserMetrics, 2) {
		alice := report.UserMetrics[0]
		assert.Equal(t, int64(42), alice.UserID)
		assert.Equal(t, "Alice", alice.Name)
		assert.Equal(t, 1, alice.Count)
		assert.Equal(t, 5.0, alice.Mean)
		assert.Equal(t, 100.0, alice.SLARate)

		// Unknown directory entries fall back to a generic name
		other := report.UserMetrics[1]
		assert.Equal(t, int64(43), other.UserID)
		assert.Equal(t, "Agent 43", other.Name)
		assert.Equal(t, 0.0, other.SLARate)
	}
}

func TestReportUseCase_ServesFromCache(t *testing.T) {
	feed := new(MockEventFeed)
	settings := new(MockSettingsRepository)
	cache := new(MockReportCache)

	settings.On("GetBusinessHours", mock.Anything).Return(allHoursCalendar(), nil)

	cached := &ReportResponse{SLAMinutes: 10, Complete: true, TotalEventsProcessed: 7}
	payload, err := json.Marshal(cached)
	assert.NoError(t, err)
	cache.On("Get", mock.Anything, mock.Anything).Return(payload, true)

	uc := newTestUseCase(feed, settings, nil, cache)
	report, err := uc.GenerateReport(context.Background(), ReportRequest{From: 1000, To: 2000})

	assert.NoError(t, err)
	assert.Equal(t, 7, report.TotalEventsProcessed)
	feed.AssertNotCalled(t, "FetchEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportUseCase_DoesNotCachePartialResults(t *testing.T) {
	feed := new(MockEventFeed)
	settings := new(MockSettingsRepository)
	cache := new(MockReportCache)

	settings.On("GetBusinessHours", mock.Anything).Return(allHoursCalendar(), nil)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false)
	feed.On("FetchEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ports.FetchResult{
		Events:   []domain.Event{{Type: domain.EventTypeIncomingMessage, EntityID: 1, CreatedAt: 1100}},
		Complete: false,
	})

	uc := newTestUseCase(feed, settings, nil, cache)
	report, err := uc.GenerateReport(context.Background(), ReportRequest{From: 1000, To: 2000})

	assert.NoError(t, err)
	assert.False(t, report.Complete)
	assert.Equal(t, 0, report.Overall.Count)
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReportUseCase_CachesCompleteResults(t *testing.T) {
	feed := new(MockEventFeed)
	settings := new(MockSettingsRepository)
	cache := new(MockReportCache)

	settings.On("GetBusinessHours", mock.Anything).Return(allHoursCalendar(), nil)
	cache.On("Get", mock.Anything, mock.Anything).Return(nil, false)
	cache.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Minute).Return()
	feed.On("FetchEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ports.FetchResult{Complete: true})

	uc := newTestUseCase(feed, settings, nil, cache)
	_, err := uc.GenerateReport(context.Background(), ReportRequest{From: 1000, To: 2000})

	assert.NoError(t, err)
	cache.AssertCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, time.Minute)
}

func TestReportUseCase_SettingsFailureFallsBackToDefaults(t *testing.T) {
	feed := new(MockEventFeed)
	settings := new(MockSettingsRepository)

	settings.On("GetBusinessHours", mock.Anything).Return(domain.BusinessHours{}, errors.New("db down"))
	feed.On("FetchEvents", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(ports.FetchResult{Complete: true})

	uc := newTestUseCase(feed, settings, nil, nil)
	report, err := uc.GenerateReport(context.Background(), ReportRequest{From: 1000, To: 2000})

	assert.NoError(t, err)
	assert.Equal(t, domain.DefaultBusinessHours().SLAMinutes, report.SLAMinutes)
}
