package pricing

import (
	"fmt"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing/models"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// validateRule проверяет форму правила
// Правило либо блокирует окно, либо задает цену
func validateRule(req *models.UpsertRuleRequest) error {
	if len(req.QuestIDs) == 0 {
		return fmt.Errorf("%w: rule must target at least one quest", ErrInvalidInput)
	}

	if req.IsBlocked && req.Price != nil {
		return fmt.Errorf("%w: blocking rule cannot set a price", ErrInvalidInput)
	}
	if !req.IsBlocked && req.Price == nil {
		return fmt.Errorf("%w: rule must either set a price or block the window", ErrInvalidInput)
	}
	if req.Price != nil && (*req.Price < 0 || *req.Price > domain.MaxPrice) {
		return fmt.Errorf("%w: price must be between 0 and %d", ErrInvalidInput, domain.MaxPrice)
	}

	// Даты: обе опциональны, start <= end
	start, end := req.StartDate, req.EndDate
	if start != nil {
		if _, err := domain.ParseDate(*start); err != nil {
			return fmt.Errorf("%w: invalid startDate, expected YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if end != nil {
		if _, err := domain.ParseDate(*end); err != nil {
			return fmt.Errorf("%w: invalid endDate, expected YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if start != nil && end != nil && *end < *start {
		return fmt.Errorf("%w: endDate is before startDate", ErrInvalidInput)
	}

	seen := make(map[int]struct{}, len(req.Weekdays))
	for _, wd := range req.Weekdays {
		if wd < 0 || wd > 6 {
			return fmt.Errorf("%w: weekday must be between 0 and 6", ErrInvalidInput)
		}
		if _, ok := seen[wd]; ok {
			return fmt.Errorf("%w: duplicate weekday %d", ErrInvalidInput, wd)
		}
		seen[wd] = struct{}{}
	}

	// Окно времени [from, to)
	from, to := 0, 24*60
	if req.TimeFrom != nil {
		ts := types.TimeString(*req.TimeFrom)
		if err := ts.Validate(); err != nil {
			return fmt.Errorf("%w: timeFrom: %v", ErrInvalidInput, err)
		}
		from = ts.Minutes()
	}
	if req.TimeTo != nil {
		ts := types.TimeString(*req.TimeTo)
		if err := ts.Validate(); err != nil {
			return fmt.Errorf("%w: timeTo: %v", ErrInvalidInput, err)
		}
		to = ts.Minutes()
	}
	if to <= from {
		return fmt.Errorf("%w: timeTo must be after timeFrom", ErrInvalidInput)
	}

	if req.IntervalMinutes < 0 || req.IntervalMinutes > domain.MaxIntervalMinutes {
		return fmt.Errorf("%w: intervalMinutes must be between 0 and %d", ErrInvalidInput, domain.MaxIntervalMinutes)
	}

	return nil
}
