package preview_schedule

import (
	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	generateSchedule "github.com/m04kA/SMC-QuestScheduleService/internal/usecase/generate_schedule"
)

// PreviewResponse HTTP response model
type PreviewResponse struct {
	QuestID int64  `json:"questId"`
	From    string `json:"from"`
	To      string `json:"to"`
	Cells   []Cell `json:"cells"`
}

// Cell ячейка расписания (заблокированные ячейки тоже показываются)
type Cell struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	Price     int64  `json:"price"`
	Source    string `json:"source"`
	Blocked   bool   `json:"blocked"`
	RuleID    *int64 `json:"ruleId,omitempty"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSchedule.PreviewResponse) *PreviewResponse {
	cells := make([]Cell, len(resp.Cells))
	for i, c := range resp.Cells {
		cells[i] = Cell{
			Date:      domain.FormatDate(c.Date),
			StartTime: c.StartTime.String(),
			Price:     c.Price,
			Source:    string(c.Source),
			Blocked:   c.Blocked,
			RuleID:    c.RuleID,
		}
	}

	return &PreviewResponse{
		QuestID: resp.QuestID,
		From:    domain.FormatDate(resp.From),
		To:      domain.FormatDate(resp.To),
		Cells:   cells,
	}
}
