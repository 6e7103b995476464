package pricing

import (
	"sort"
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// Decision результат применения правил к ячейке (дата, время)
type Decision struct {
	Rule    *domain.PricingRule // nil, если ни одно правило не подошло
	Blocked bool
	Price   *int64
}

// Matched возвращает true, если для ячейки нашлось правило
func (d Decision) Matched() bool {
	return d.Rule != nil
}

// RuleSet упорядоченный набор активных правил одного квеста
// Не изменяется после создания, безопасен для конкурентного чтения
type RuleSet struct {
	questID int64
	rules   []*domain.PricingRule
}

// NewRuleSet отбирает активные правила квеста и сортирует их в порядке применения:
//  1. Priority по убыванию
//  2. конкретность диапазона дат по убыванию (обе границы > одна > ни одной)
//  3. CreatedAt по возрастанию, затем ID по возрастанию (выигрывает созданное раньше)
func NewRuleSet(questID int64, rules []*domain.PricingRule) *RuleSet {
	selected := make([]*domain.PricingRule, 0, len(rules))
	for _, r := range rules {
		if r == nil || !r.IsActive || !r.AppliesToQuest(questID) {
			continue
		}
		selected = append(selected, r)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return less(selected[i], selected[j])
	})

	return &RuleSet{questID: questID, rules: selected}
}

// Len возвращает количество применимых правил
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// Rules возвращает правила в порядке применения
func (s *RuleSet) Rules() []*domain.PricingRule {
	if s == nil {
		return nil
	}
	out := make([]*domain.PricingRule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Evaluate выбирает правило-победителя для ячейки
// Первое совпавшее правило в отсортированном наборе и есть победитель
func (s *RuleSet) Evaluate(date time.Time, at types.TimeString) Decision {
	if s == nil {
		return Decision{}
	}
	for _, r := range s.rules {
		if !Matches(r, date, at) {
			continue
		}
		return Decision{Rule: r, Blocked: r.IsBlocked, Price: r.Price}
	}
	return Decision{}
}

// Resolve применяет правила к цене шаблона
// ok = false означает, что ячейка заблокирована и слот не создается
func (s *RuleSet) Resolve(date time.Time, at types.TimeString, basePrice int64, baseSource domain.PriceSource) (int64, domain.PriceSource, bool) {
	d := s.Evaluate(date, at)
	switch {
	case !d.Matched():
		return basePrice, baseSource, true
	case d.Blocked:
		return 0, "", false
	case d.Price != nil:
		return *d.Price, domain.PriceSourceRule, true
	default:
		// Правило без цены и без блокировки не меняет цену шаблона
		return basePrice, baseSource, true
	}
}

// Matches проверяет, попадает ли ячейка (дата, время) под условия правила
// Квест и активность правила здесь не проверяются
func Matches(r *domain.PricingRule, date time.Time, at types.TimeString) bool {
	return matchDate(r, date) && matchWeekday(r, date.Weekday()) && matchTime(r, at)
}

func matchDate(r *domain.PricingRule, date time.Time) bool {
	d := domain.DateOnly(date)
	if r.StartDate != nil && d.Before(domain.DateOnly(*r.StartDate)) {
		return false
	}
	if r.EndDate != nil && d.After(domain.DateOnly(*r.EndDate)) {
		return false
	}
	return true
}

func matchWeekday(r *domain.PricingRule, wd time.Weekday) bool {
	if len(r.Weekdays) == 0 {
		return true
	}
	for _, w := range r.Weekdays {
		if w == wd {
			return true
		}
	}
	return false
}

// matchTime проверяет окно [TimeFrom, TimeTo) и выравнивание по интервалу
func matchTime(r *domain.PricingRule, at types.TimeString) bool {
	m := at.Minutes()
	if m < 0 {
		return false
	}

	from := 0
	if r.TimeFrom != nil && !r.TimeFrom.IsZero() {
		from = r.TimeFrom.Minutes()
	}
	to := 24 * 60
	if r.TimeTo != nil && !r.TimeTo.IsZero() {
		to = r.TimeTo.Minutes()
	}

	if m < from || m >= to {
		return false
	}
	if r.IntervalMinutes > 0 && (m-from)%r.IntervalMinutes != 0 {
		return false
	}
	return true
}

func less(a, b *domain.PricingRule) bool {
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if sa, sb := a.DateSpecificity(), b.DateSpecificity(); sa != sb {
		return sa > sb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
