package pricing_rule

import "github.com/m04kA/SMC-QuestScheduleService/internal/service/pricing/models"

// UpsertRuleRequest HTTP request model
type UpsertRuleRequest struct {
	Name            string  `json:"name" validate:"max=255"`
	QuestIDs        []int64 `json:"questIds" validate:"required,min=1,dive,gt=0"`
	StartDate       *string `json:"startDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate         *string `json:"endDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weekdays        []int   `json:"weekdays,omitempty" validate:"max=7,dive,min=0,max=6"`
	TimeFrom        *string `json:"timeFrom,omitempty" validate:"omitempty,datetime=15:04"`
	TimeTo          *string `json:"timeTo,omitempty" validate:"omitempty,datetime=15:04"`
	IntervalMinutes int     `json:"intervalMinutes" validate:"gte=0"`
	Price           *int64  `json:"price,omitempty" validate:"omitempty,gte=0"`
	IsBlocked       bool    `json:"isBlocked"`
	Priority        int     `json:"priority"`
	IsActive        *bool   `json:"isActive,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса (id == 0 для создания)
func (r *UpsertRuleRequest) ToServiceRequest(id int64) *models.UpsertRuleRequest {
	return &models.UpsertRuleRequest{
		ID:              id,
		Name:            r.Name,
		QuestIDs:        r.QuestIDs,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Weekdays:        r.Weekdays,
		TimeFrom:        r.TimeFrom,
		TimeTo:          r.TimeTo,
		IntervalMinutes: r.IntervalMinutes,
		Price:           r.Price,
		IsBlocked:       r.IsBlocked,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
	}
}
