package models

import (
	"time"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

// Request модели

// UpsertRuleRequest запрос на создание (ID == 0) или обновление правила
// Даты в формате YYYY-MM-DD, время в формате HH:MM, дни недели 0 = воскресенье ... 6 = суббота
type UpsertRuleRequest struct {
	ID              int64   `json:"id,omitempty"`
	Name            string  `json:"name"`
	QuestIDs        []int64 `json:"questIds"`
	StartDate       *string `json:"startDate,omitempty"`
	EndDate         *string `json:"endDate,omitempty"`
	Weekdays        []int   `json:"weekdays,omitempty"`
	TimeFrom        *string `json:"timeFrom,omitempty"`
	TimeTo          *string `json:"timeTo,omitempty"`
	IntervalMinutes int     `json:"intervalMinutes"`
	Price           *int64  `json:"price,omitempty"`
	IsBlocked       bool    `json:"isBlocked"`
	Priority        int     `json:"priority"`
	IsActive        *bool   `json:"isActive,omitempty"` // по умолчанию true
}

// ListRulesRequest фильтр списка правил
type ListRulesRequest struct {
	QuestID    *int64
	OnlyActive bool
}

// Response модели

// RuleResponse правило ценообразования
type RuleResponse struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	QuestIDs        []int64   `json:"questIds"`
	StartDate       *string   `json:"startDate,omitempty"`
	EndDate         *string   `json:"endDate,omitempty"`
	Weekdays        []int     `json:"weekdays"`
	TimeFrom        *string   `json:"timeFrom,omitempty"`
	TimeTo          *string   `json:"timeTo,omitempty"`
	IntervalMinutes int       `json:"intervalMinutes"`
	Price           *int64    `json:"price,omitempty"`
	IsBlocked       bool      `json:"isBlocked"`
	Priority        int       `json:"priority"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// RuleListResponse список правил
type RuleListResponse struct {
	Rules []*RuleResponse `json:"rules"`
	Total int             `json:"total"`
}

// FromDomainRule конвертирует доменное правило в ответ
func FromDomainRule(r *domain.PricingRule) *RuleResponse {
	resp := &RuleResponse{
		ID:              r.ID,
		Name:            r.Name,
		QuestIDs:        r.QuestIDs,
		Weekdays:        make([]int, 0, len(r.Weekdays)),
		IntervalMinutes: r.IntervalMinutes,
		Price:           r.Price,
		IsBlocked:       r.IsBlocked,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.StartDate != nil {
		s := domain.FormatDate(*r.StartDate)
		resp.StartDate = &s
	}
	if r.EndDate != nil {
		s := domain.FormatDate(*r.EndDate)
		resp.EndDate = &s
	}
	for _, wd := range r.Weekdays {
		resp.Weekdays = append(resp.Weekdays, int(wd))
	}
	if r.TimeFrom != nil {
		s := r.TimeFrom.String()
		resp.TimeFrom = &s
	}
	if r.TimeTo != nil {
		s := r.TimeTo.String()
		resp.TimeTo = &s
	}
	return resp
}

// FromDomainRuleList конвертирует список правил в ответ
func FromDomainRuleList(rules []*domain.PricingRule) *RuleListResponse {
	resp := &RuleListResponse{
		Rules: make([]*RuleResponse, 0, len(rules)),
		Total: len(rules),
	}
	for _, r := range rules {
		resp.Rules = append(resp.Rules, FromDomainRule(r))
	}
	return resp
}

// ToDomainRule конвертирует запрос в доменное правило
// Поля должны быть предварительно провалидированы
func (r *UpsertRuleRequest) ToDomainRule() *domain.PricingRule {
	rule := &domain.PricingRule{
		ID:              r.ID,
		Name:            r.Name,
		QuestIDs:        r.QuestIDs,
		IntervalMinutes: r.IntervalMinutes,
		Price:           r.Price,
		IsBlocked:       r.IsBlocked,
		Priority:        r.Priority,
		IsActive:        r.IsActive == nil || *r.IsActive,
	}
	if r.StartDate != nil {
		if d, err := domain.ParseDate(*r.StartDate); err == nil {
			rule.StartDate = &d
		}
	}
	if r.EndDate != nil {
		if d, err := domain.ParseDate(*r.EndDate); err == nil {
			rule.EndDate = &d
		}
	}
	for _, wd := range r.Weekdays {
		rule.Weekdays = append(rule.Weekdays, time.Weekday(wd))
	}
	if r.TimeFrom != nil {
		ts := types.TimeString(*r.TimeFrom)
		rule.TimeFrom = &ts
	}
	if r.TimeTo != nil {
		ts := types.TimeString(*r.TimeTo)
		rule.TimeTo = &ts
	}
	return rule
}
