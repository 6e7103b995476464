package generate_schedule

import (
	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	generateSchedule "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/generate_schedule"
)

// GenerateScheduleRequest HTTP request model
// Пустой questId означает все активные квесты, пустые даты - окно по умолчанию
type GenerateScheduleRequest struct {
	QuestID *int64  `json:"questId,omitempty" validate:"omitempty,gt=0"`
	From    *string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	To      *string `json:"to,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// StatsResponse счетчики изменений слотов
type StatsResponse struct {
	Created       int `json:"created"`
	Updated       int `json:"updated"`
	Unchanged     int `json:"unchanged"`
	Removed       int `json:"removed"`
	SkippedBooked int `json:"skippedBooked"`
	Blocked       int `json:"blocked"`
}

// QuestResultResponse результат по квесту
type QuestResultResponse struct {
	QuestID int64 `json:"questId"`
	StatsResponse
}

// GenerateScheduleResponse HTTP response model
type GenerateScheduleResponse struct {
	From    string                `json:"from"`
	To      string                `json:"to"`
	Created int                   `json:"created"`
	Total   StatsResponse         `json:"total"`
	Quests  []QuestResultResponse `json:"quests"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Формат дат уже проверен валидатором
func (r *GenerateScheduleRequest) ToUseCaseRequest() *generateSchedule.Request {
	req := &generateSchedule.Request{QuestID: r.QuestID}
	if r.From != nil {
		if d, err := domain.ParseDate(*r.From); err == nil {
			req.From = &d
		}
	}
	if r.To != nil {
		if d, err := domain.ParseDate(*r.To); err == nil {
			req.To = &d
		}
	}
	return req
}

func fromStats(s generateSchedule.Stats) StatsResponse {
	return StatsResponse{
		Created:       s.Created,
		Updated:       s.Updated,
		Unchanged:     s.Unchanged,
		Removed:       s.Removed,
		SkippedBooked: s.SkippedBooked,
		Blocked:       s.Blocked,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSchedule.Response) *GenerateScheduleResponse {
	quests := make([]QuestResultResponse, 0, len(resp.Quests))
	for _, q := range resp.Quests {
		quests = append(quests, QuestResultResponse{QuestID: q.QuestID, StatsResponse: fromStats(q.Stats)})
	}

	return &GenerateScheduleResponse{
		From:    domain.FormatDate(resp.From),
		To:      domain.FormatDate(resp.To),
		Created: resp.Total.Created,
		Total:   fromStats(resp.Total),
		Quests:  quests,
	}
}
