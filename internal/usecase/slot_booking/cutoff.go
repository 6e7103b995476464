package slot_booking

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// CutoffResult результат проверки окна отсечки
type CutoffResult int

const (
	// CutoffAllowed слот можно занять
	CutoffAllowed CutoffResult = iota
	// CutoffTooLate до начала слота осталось меньше cutoff
	CutoffTooLate
)

// String возвращает строковое представление результата
func (r CutoffResult) String() string {
	if r == CutoffTooLate {
		return "too_late"
	}
	return "allowed"
}

// CutoffCheck проверяет, можно ли занять слот, начинающийся в slotStart
// Чистая функция: занятость слота не учитывается
func CutoffCheck(slotStart, now time.Time, cutoffMinutes int) CutoffResult {
	if domain.IsWithinCutoff(slotStart, now, time.Duration(cutoffMinutes)*time.Minute) {
		return CutoffTooLate
	}
	return CutoffAllowed
}
