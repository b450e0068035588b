package usecase

import (
	"context"
	"fmt"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/ports"
)

// BusinessHoursResponse is the settings payload exchanged with the API
type BusinessHoursResponse struct {
	StartHour  int   `json:"start_hour"`
	EndHour    int   `json:"end_hour"`
	Days       []int `json:"days"`
	SLAMinutes int   `json:"sla_minutes"`
}

// UpdateBusinessHoursRequest replaces the stored calendar
type UpdateBusinessHoursRequest struct {
	StartHour  int   `json:"start_hour"`
	EndHour    int   `json:"end_hour"`
	Days       []int `json:"days"`
	SLAMinutes int   `json:"sla_minutes"`
}

// SettingsUseCase reads and updates the business-hours calendar
type SettingsUseCase struct {
	settings ports.SettingsRepository
}

// NewSettingsUseCase creates the settings use case
func NewSettingsUseCase(settings ports.SettingsRepository) *SettingsUseCase {
	return &SettingsUseCase{settings: settings}
}

// GetBusinessHours returns the effective calendar
func (uc *SettingsUseCase) GetBusinessHours(ctx context.Context) (*BusinessHoursResponse, error) {
	hours, err := uc.settings.GetBusinessHours(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business hours: %w", err)
	}
	return &BusinessHoursResponse{
		StartHour:  hours.StartHour,
		EndHour:    hours.EndHour,
		Days:       hours.WeekdayList(),
		SLAMinutes: hours.SLAMinutes,
	}, nil
}

// UpdateBusinessHours validates and stores a new calendar
func (uc *SettingsUseCase) UpdateBusinessHours(ctx context.Context, req UpdateBusinessHoursRequest) (*BusinessHoursResponse, error) {
	hours := domain.BusinessHoursFromWeekdays(req.StartHour, req.EndHour, req.SLAMinutes, req.Days)
	if err := hours.Validate(); err != nil {
		return nil, err
	}

	if err := uc.settings.SaveBusinessHours(ctx, hours); err != nil {
		return nil, fmt.Errorf("failed to save business hours: %w", err)
	}

	return &BusinessHoursResponse{
		StartHour:  hours.StartHour,
		EndHour:    hours.EndHour,
		Days:       hours.WeekdayList(),
		SLAMinutes: hours.SLAMinutes,
	}, nil
}
