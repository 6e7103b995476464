package domain

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// PricingRule правило ценообразования для набора квестов
// Правило либо фиксирует цену (Price), либо блокирует окно (IsBlocked)
type PricingRule struct {
	ID       int64
	Name     string
	QuestIDs []int64

	StartDate *time.Time     // nil = без нижней границы
	EndDate   *time.Time     // nil = без верхней границы (включительно)
	Weekdays  []time.Weekday // пусто = все дни недели

	TimeFrom        *types.TimeString // nil = с начала суток
	TimeTo          *types.TimeString // nil = до конца суток (не включительно)
	IntervalMinutes int               // 0 = любое время внутри окна

	Price     *int64
	IsBlocked bool
	Priority  int
	IsActive  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DateSpecificity степень конкретности диапазона дат:
// 2 - заданы обе границы, 1 - одна, 0 - открытый диапазон
func (r *PricingRule) DateSpecificity() int {
	n := 0
	if r.StartDate != nil {
		n++
	}
	if r.EndDate != nil {
		n++
	}
	return n
}

// AppliesToQuest возвращает true, если правило распространяется на квест
func (r *PricingRule) AppliesToQuest(questID int64) bool {
	for _, id := range r.QuestIDs {
		if id == questID {
			return true
		}
	}
	return false
}

// PricingRuleFilter фильтр выборки правил
type PricingRuleFilter struct {
	QuestID    *int64
	OnlyActive bool
}
