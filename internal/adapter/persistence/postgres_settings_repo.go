package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/ports"
)

// PostgresSettingsRepository stores the business-hours calendar in a
// single-row table. A missing row means the calendar was never customized
// and the configured defaults apply.
type PostgresSettingsRepository struct {
	db       *sql.DB
	defaults domain.BusinessHours
}

// NewPostgresSettingsRepository creates a settings repository with the
// given fallback calendar
func NewPostgresSettingsRepository(db *sql.DB, defaults domain.BusinessHours) ports.SettingsRepository {
	return &PostgresSettingsRepository{db: db, defaults: defaults}
}

// GetBusinessHours loads the stored calendar or returns the defaults when
// none has been saved yet
func (r *PostgresSettingsRepository) GetBusinessHours(ctx context.Context) (domain.BusinessHours, error) {
	query := `
		SELECT start_hour, end_hour, days, sla_minutes
		FROM business_hours
		WHERE id = 1
	`

	var startHour, endHour, slaMinutes int
	var days string

	err := r.db.QueryRowContext(ctx, query).Scan(&startHour, &endHour, &days, &slaMinutes)
	if err == sql.ErrNoRows {
		return r.defaults, nil
	}
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("failed to load business hours: %w", err)
	}

	weekdays, err := parseWeekdays(days)
	if err != nil {
		return domain.BusinessHours{}, fmt.Errorf("failed to parse stored business days: %w", err)
	}

	return domain.BusinessHoursFromWeekdays(startHour, endHour, slaMinutes, weekdays), nil
}

// SaveBusinessHours upserts the calendar row
func (r *PostgresSettingsRepository) SaveBusinessHours(ctx context.Context, hours domain.BusinessHours) error {
	if err := hours.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO business_hours (id, start_hour, end_hour, days, sla_minutes, updated_at)
		VALUES (1, $1, $2, $3, $4, NOW())
		ON CONFLICT (id) DO UPDATE
		SET start_hour = $1, end_hour = $2, days = $3, sla_minutes = $4, updated_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query,
		hours.StartHour,
		hours.EndHour,
		formatWeekdays(hours.WeekdayList()),
		hours.SLAMinutes,
	)
	if err != nil {
		return fmt.Errorf("failed to save business hours: %w", err)
	}

	return nil
}

func formatWeekdays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func parseWeekdays(days string) ([]int, error) {
	parts := strings.Split(days, ",")
	parsed := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, n)
	}
	return parsed, nil
}
