package calendar

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
)

// parseCSV читает строки формата date,is_holiday[,title]
// Первая строка пропускается, если это заголовок
func parseCSV(r io.Reader) ([]*domain.CalendarDay, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var (
		days = make([]*domain.CalendarDay, 0, 366)
		seen = make(map[string]int)
		line = 0
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidInput, line, err)
		}

		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "date") {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf("%w: line %d: expected date,is_holiday[,title]", ErrInvalidInput, line)
		}

		date, err := domain.ParseDate(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid date %q", ErrInvalidInput, line, record[0])
		}

		isHoliday, err := strconv.ParseBool(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: invalid is_holiday %q", ErrInvalidInput, line, record[1])
		}

		var title string
		if len(record) > 2 {
			title = strings.TrimSpace(record[2])
		}
		if len(title) > domain.MaxCalendarTitleLength {
			return nil, fmt.Errorf("%w: line %d: title is too long", ErrInvalidInput, line)
		}

		day := &domain.CalendarDay{
			Date:      date,
			IsHoliday: isHoliday,
			Title:     title,
			Source:    domain.CalendarSourceImport,
		}

		// повтор даты в файле: побеждает последняя строка
		key := domain.FormatDate(date)
		if idx, ok := seen[key]; ok {
			days[idx] = day
			continue
		}
		seen[key] = len(days)
		days = append(days, day)
	}

	return days, nil
}
