package ports

import (
	"context"

	"github.com/replywatch/replywatch/internal/domain"
)

// SettingsRepository persists the business-hours calendar. The engine
// itself only ever sees the loaded value.
type SettingsRepository interface {
	// GetBusinessHours loads the stored calendar, or the default one when
	// nothing has been saved yet
	GetBusinessHours(ctx context.Context) (domain.BusinessHours, error)

	// SaveBusinessHours replaces the stored calendar
	SaveBusinessHours(ctx context.Context, hours domain.BusinessHours) error
}

// UserRepository persists dashboard accounts
type UserRepository interface {
	// FindByEmail retrieves a dashboard user by email
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// Create saves a new dashboard user
	Create(ctx context.Context, user *domain.User) error
}

// UserDirectory maps CRM agent ids to display names. Missing ids are
// simply absent from the returned map.
type UserDirectory interface {
	DisplayNames(ctx context.Context, ids []int64) (map[int64]string, error)
}
