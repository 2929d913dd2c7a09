package converter

import (
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"
)

// TemplateToResponse converts the weekly template intervals to the response DTO
func TemplateToResponse(intervals []entity.TemplateInterval) *dto.TemplateResponse {
	responses := make([]dto.TemplateIntervalResponse, len(intervals))
	for i, iv := range intervals {
		responses[i] = dto.TemplateIntervalResponse{
			ID:          iv.ID,
			Weekday:     int(iv.Weekday),
			StartTime:   iv.StartTime,
			EndTime:     iv.EndTime,
			SlotMinutes: iv.SlotMinutes,
		}
	}
	return &dto.TemplateResponse{
		Intervals: responses,
		Total:     len(responses),
	}
}

// BlockedDatesToResponses converts blocked date entities to the list DTO
func BlockedDatesToResponses(blocked []entity.BlockedDate) *dto.BlockedDateListResponse {
	responses := make([]dto.BlockedDateResponse, len(blocked))
	for i, b := range blocked {
		responses[i] = dto.BlockedDateResponse{
			ID:        b.ID,
			StartDate: b.StartDate.Format("2006-01-02"),
			EndDate:   b.EndDate.Format("2006-01-02"),
			Reason:    b.Reason,
		}
	}
	return &dto.BlockedDateListResponse{
		BlockedDates: responses,
		Total:        len(responses),
	}
}

// SlotsToResponses converts time windows to the slot list DTO
func SlotsToResponses(windows []entity.TimeWindow) *dto.SlotListResponse {
	responses := make([]dto.SlotResponse, len(windows))
	for i, w := range windows {
		responses[i] = dto.SlotResponse{Start: w.Start, End: w.End}
	}
	return &dto.SlotListResponse{
		Slots: responses,
		Total: len(responses),
	}
}
