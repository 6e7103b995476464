package schedule

import (
	"fmt"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/schedule/models"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

func validatePrice(price int64) error {
	if price < 0 || price > domain.MaxPrice {
		return fmt.Errorf("%w: price must be between 0 and %d", ErrInvalidInput, domain.MaxPrice)
	}
	return nil
}

// validateTemplate проверяет строки шаблона и уникальность (день недели, время)
func validateTemplate(entries []models.WeeklyTemplateEntry) error {
	seen := make(map[string]struct{}, len(entries))

	for i, e := range entries {
		if e.Weekday < 0 || e.Weekday > 6 {
			return fmt.Errorf("%w: entries[%d]: weekday must be between 0 and 6", ErrInvalidInput, i)
		}
		if err := types.TimeString(e.StartTime).Validate(); err != nil {
			return fmt.Errorf("%w: entries[%d]: %v", ErrInvalidInput, i, err)
		}
		if err := validatePrice(e.Price); err != nil {
			return fmt.Errorf("entries[%d]: %w", i, err)
		}
		if e.HolidayPrice != nil {
			if err := validatePrice(*e.HolidayPrice); err != nil {
				return fmt.Errorf("entries[%d] holiday: %w", i, err)
			}
		}

		key := fmt.Sprintf("%d/%s", e.Weekday, e.StartTime)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: duplicate entry weekday=%d time=%s", ErrInvalidInput, e.Weekday, e.StartTime)
		}
		seen[key] = struct{}{}
	}

	return nil
}

// validateOverrideSlots проверяет слоты исключения и уникальность времени
func validateOverrideSlots(isClosed bool, slots []models.OverrideSlotEntry) error {
	if isClosed && len(slots) > 0 {
		return fmt.Errorf("%w: closed date cannot have slots", ErrInvalidInput)
	}
	if len(slots) > domain.MaxSlotsPerDay {
		return fmt.Errorf("%w: too many slots per day (max %d)", ErrInvalidInput, domain.MaxSlotsPerDay)
	}

	seen := make(map[string]struct{}, len(slots))
	for i, s := range slots {
		if err := types.TimeString(s.StartTime).Validate(); err != nil {
			return fmt.Errorf("%w: slots[%d]: %v", ErrInvalidInput, i, err)
		}
		if err := validatePrice(s.Price); err != nil {
			return fmt.Errorf("slots[%d]: %w", i, err)
		}
		if _, ok := seen[s.StartTime]; ok {
			return fmt.Errorf("%w: duplicate slot time %s", ErrInvalidInput, s.StartTime)
		}
		seen[s.StartTime] = struct{}{}
	}

	return nil
}
