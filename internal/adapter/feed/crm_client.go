package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/ports"
	"github.com/replywatch/replywatch/internal/service/logger"
)

// Config holds the connection settings for the CRM events API
type Config struct {
	BaseURL        string
	AccessToken    string
	PageSize       int
	MaxPages       int
	RequestTimeout time.Duration
}

// Client fetches timeline events from the CRM's paginated events API.
// It implements ports.EventFeed: fetching degrades to a partial result
// instead of failing, so the analytics pipeline always gets something to
// work with.
type Client struct {
	baseURL        string
	accessToken    string
	pageSize       int
	maxPages       int
	requestTimeout time.Duration
	httpClient     *http.Client
	logger         logger.Logger
}

// eventPayload mirrors a single event in the CRM response body
type eventPayload struct {
	Type       string `json:"type"`
	EntityID   int64  `json:"entity_id"`
	CreatedBy  int64  `json:"created_by"`
	CreatedAt  int64  `json:"created_at"`
	ValueAfter []struct {
		ResponsibleUser struct {
			ID int64 `json:"id"`
		} `json:"responsible_user"`
	} `json:"value_after"`
}

// eventsPage mirrors one page of the CRM events endpoint
type eventsPage struct {
	Embedded struct {
		Events []eventPayload `json:"events"`
	} `json:"_embedded"`
}

// NewClient builds a CRM events client
func NewClient(config Config, log logger.Logger) *Client {
	if config.PageSize <= 0 {
		config.PageSize = 100
	}
	if config.MaxPages <= 0 {
		config.MaxPages = 50
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = 10 * time.Second
	}
	if log == nil {
		log = logger.NewNoop()
	}

	return &Client{
		baseURL:        strings.TrimRight(config.BaseURL, "/"),
		accessToken:    config.AccessToken,
		pageSize:       config.PageSize,
		maxPages:       config.MaxPages,
		requestTimeout: config.RequestTimeout,
		httpClient:     &http.Client{Timeout: config.RequestTimeout},
		logger:         log,
	}
}

// FetchEvents walks the paginated events endpoint and collects every event
// of the requested types created within [from, to]. Pagination stops on the
// first failed or short page; whatever was gathered so far is returned with
// Complete=false when the stop was not a natural end of data.
func (c *Client) FetchEvents(ctx context.Context, types []domain.EventType, from, to int64) ports.FetchResult {
	result := ports.FetchResult{}

	for page := 1; page <= c.maxPages; page++ {
		if ctx.Err() != nil {
			c.logger.Warn(ctx, "event fetch canceled", map[string]interface{}{
				"page":      page,
				"collected": len(result.Events),
			})
			return result
		}

		events, last, err := c.fetchPage(ctx, types, from, to, page)
		if err != nil {
			c.logger.Warn(ctx, "event page fetch failed, returning partial data", map[string]interface{}{
				"page":      page,
				"collected": len(result.Events),
				"error":     err.Error(),
			})
			return result
		}

		result.Events = append(result.Events, events...)

		if last {
			result.Complete = true
			return result
		}
	}

	c.logger.Warn(ctx, "event fetch hit page ceiling", map[string]interface{}{
		"max_pages": c.maxPages,
		"collected": len(result.Events),
	})
	return result
}

// fetchPage requests a single page. last is true when the page signals the
// natural end of data (204, empty list, or fewer events than a full page).
func (c *Client) fetchPage(ctx context.Context, types []domain.EventType, from, to int64, page int) ([]domain.Event, bool, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/api/v4/events", nil)
	if err != nil {
		return nil, false, fmt.Errorf("build events request: %w", err)
	}

	query := url.Values{}
	for _, t := range types {
		query.Add("filter[type][]", string(t))
	}
	query.Set("filter[created_at][from]", strconv.FormatInt(from, 10))
	query.Set("filter[created_at][to]", strconv.FormatInt(to, 10))
	query.Set("limit", strconv.Itoa(c.pageSize))
	query.Set("page", strconv.Itoa(page))
	req.URL.RawQuery = query.Encode()
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("request events page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, true, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("events page %d returned status %d", page, resp.StatusCode)
	}

	var body eventsPage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		// Malformed payload counts as an empty page
		c.logger.Warn(ctx, "malformed events page, treating as empty", map[string]interface{}{
			"page":  page,
			"error": err.Error(),
		})
		return nil, true, nil
	}

	if len(body.Embedded.Events) == 0 {
		return nil, true, nil
	}

	events := make([]domain.Event, 0, len(body.Embedded.Events))
	for _, payload := range body.Embedded.Events {
		events = append(events, payload.toDomain())
	}

	return events, len(events) < c.pageSize, nil
}

func (p eventPayload) toDomain() domain.Event {
	event := domain.Event{
		Type:      domain.EventType(p.Type),
		EntityID:  p.EntityID,
		CreatedAt: p.CreatedAt,
		ActorID:   p.CreatedBy,
	}
	if len(p.ValueAfter) > 0 {
		event.NewResponsibleID = p.ValueAfter[0].ResponsibleUser.ID
	}
	return event
}
