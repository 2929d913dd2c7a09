package dto

import "time"

// Request DTOs

// TemplateIntervalRequest is one weekly recurring working interval.
// Times are HH:MM 24-hour clock; the interval is expanded into fixed-length
// slots when availability is computed.
type TemplateIntervalRequest struct {
	Weekday     int    `json:"weekday" validate:"gte=0,lte=6"`
	StartTime   string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime     string `json:"end_time" validate:"required,datetime=15:04"`
	SlotMinutes int    `json:"slot_minutes" validate:"omitempty,gte=15,lte=240"`
}

// SetTemplateRequest replaces the professional's whole weekly template
type SetTemplateRequest struct {
	Intervals []TemplateIntervalRequest `json:"intervals" validate:"required,min=1,max=50,dive"`
}

type CreateBlockedDateRequest struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    string `json:"reason" validate:"omitempty,max=255"`
}

// Response DTOs

type TemplateIntervalResponse struct {
	ID          int    `json:"id"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	SlotMinutes int    `json:"slot_minutes"`
}

type TemplateResponse struct {
	Intervals []TemplateIntervalResponse `json:"intervals"`
	Total     int                        `json:"total"`
}

type BlockedDateResponse struct {
	ID        int    `json:"id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason,omitempty"`
}

type BlockedDateListResponse struct {
	BlockedDates []BlockedDateResponse `json:"blocked_dates"`
	Total        int                   `json:"total"`
}

type SlotResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
	Total int            `json:"total"`
}
