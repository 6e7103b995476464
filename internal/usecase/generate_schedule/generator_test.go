package generate_schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/internal/pricing"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

const questID = int64(1)

// 2024-01-01 - понедельник
var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func tpl(wd time.Weekday, start string, price int64) *domain.WeeklySlotTemplate {
	return &domain.WeeklySlotTemplate{QuestID: questID, Weekday: wd, StartTime: types.MustTimeString(start), Price: price}
}

func tsPtr(s string) *types.TimeString {
	v := types.MustTimeString(s)
	return &v
}

func TestGenerate_TemplateOnly(t *testing.T) {
	templates := []*domain.WeeklySlotTemplate{
		tpl(time.Monday, "12:00", 3000),
		tpl(time.Monday, "10:00", 3000),
		tpl(time.Wednesday, "18:00", 3500),
	}
	holidayEntry := tpl(time.Tuesday, "10:00", 2500)
	holidayEntry.HolidayPrice = ptr.Ptr(int64(4000))
	templates = append(templates, holidayEntry)

	calendar := domain.NewProductionCalendar([]*domain.CalendarDay{
		{Date: monday, IsHoliday: true},
		{Date: monday.AddDate(0, 0, 1), IsHoliday: true},
	})

	cells := Generate(Input{
		QuestID:   questID,
		From:      monday,
		To:        monday.AddDate(0, 0, 6),
		Templates: templates,
		Calendar:  calendar,
	})

	require.Len(t, cells, 4)

	// понедельник праздничный, но праздничной цены нет
	assert.Equal(t, "10:00", cells[0].StartTime.String(), "cells are ordered by time")
	assert.Equal(t, int64(3000), cells[0].Price)
	assert.Equal(t, domain.PriceSourceTemplate, cells[0].Source)
	assert.Equal(t, "12:00", cells[1].StartTime.String())

	// вторник праздничный с праздничной ценой
	assert.Equal(t, int64(4000), cells[2].Price)
	assert.Equal(t, domain.PriceSourceHoliday, cells[2].Source)

	// среда
	assert.Equal(t, "2024-01-03", domain.FormatDate(cells[3].Date))
	assert.Equal(t, int64(3500), cells[3].Price)
}

func TestGenerate_OverrideReplacesTemplate(t *testing.T) {
	templates := []*domain.WeeklySlotTemplate{
		tpl(time.Monday, "10:00", 3000),
		tpl(time.Tuesday, "10:00", 3000),
	}
	overrides := []*domain.DateOverride{
		{
			QuestID: questID,
			Date:    monday,
			Slots: []domain.OverrideSlot{
				{StartTime: types.MustTimeString("15:00"), Price: 5000},
				{StartTime: types.MustTimeString("11:00"), Price: 4500},
			},
		},
		{QuestID: questID, Date: monday.AddDate(0, 0, 1), IsClosed: true},
	}

	cells := Generate(Input{
		QuestID:   questID,
		From:      monday,
		To:        monday.AddDate(0, 0, 1),
		Templates: templates,
		Overrides: overrides,
	})

	require.Len(t, cells, 2, "template ignored on override dates, closed day has no slots")
	assert.Equal(t, "11:00", cells[0].StartTime.String())
	assert.Equal(t, int64(4500), cells[0].Price)
	assert.Equal(t, domain.PriceSourceOverride, cells[0].Source)
	assert.Equal(t, "15:00", cells[1].StartTime.String())
}

func TestGenerate_BlockingRule(t *testing.T) {
	block := &domain.PricingRule{
		ID:        5,
		QuestIDs:  []int64{questID},
		Weekdays:  []time.Weekday{time.Monday},
		TimeFrom:  tsPtr("09:00"),
		TimeTo:    tsPtr("12:00"),
		IsBlocked: true,
		Priority:  10,
		IsActive:  true,
	}

	cells := Generate(Input{
		QuestID: questID,
		From:    monday,
		To:      monday,
		Templates: []*domain.WeeklySlotTemplate{
			tpl(time.Monday, "10:00", 3000),
			tpl(time.Monday, "13:00", 3000),
		},
		Rules: pricing.NewRuleSet(questID, []*domain.PricingRule{block}),
	})

	bookable := Bookable(cells)
	require.Len(t, bookable, 1)
	assert.Equal(t, "13:00", bookable[0].StartTime.String())

	require.Len(t, cells, 2)
	assert.True(t, cells[0].Blocked)
	require.NotNil(t, cells[0].RuleID)
	assert.Equal(t, int64(5), *cells[0].RuleID)
}

func TestGenerate_BlockingRuleDoesNotFilterOverrides(t *testing.T) {
	block := &domain.PricingRule{
		ID:        1,
		QuestIDs:  []int64{questID},
		IsBlocked: true,
		Priority:  100,
		IsActive:  true,
	}

	cells := Generate(Input{
		QuestID: questID,
		From:    monday,
		To:      monday,
		Overrides: []*domain.DateOverride{{
			QuestID: questID,
			Date:    monday,
			Slots:   []domain.OverrideSlot{{StartTime: types.MustTimeString("10:00"), Price: 5000}},
		}},
		Rules: pricing.NewRuleSet(questID, []*domain.PricingRule{block}),
	})

	require.Len(t, Bookable(cells), 1)
	assert.Equal(t, int64(5000), cells[0].Price)
}

func TestGenerate_RulePriceOverridesHolidayPrice(t *testing.T) {
	entry := tpl(time.Monday, "10:00", 3000)
	entry.HolidayPrice = ptr.Ptr(int64(4000))

	low := &domain.PricingRule{ID: 1, QuestIDs: []int64{questID}, Price: ptr.Ptr(int64(2000)), Priority: 1, IsActive: true}
	high := &domain.PricingRule{ID: 2, QuestIDs: []int64{questID}, Price: ptr.Ptr(int64(6000)), Priority: 7, IsActive: true}

	cells := Generate(Input{
		QuestID:   questID,
		From:      monday,
		To:        monday,
		Templates: []*domain.WeeklySlotTemplate{entry},
		Rules:     pricing.NewRuleSet(questID, []*domain.PricingRule{low, high}),
		Calendar:  domain.NewProductionCalendar([]*domain.CalendarDay{{Date: monday, IsHoliday: true}}),
	})

	require.Len(t, cells, 1)
	assert.Equal(t, int64(6000), cells[0].Price)
	assert.Equal(t, domain.PriceSourceRule, cells[0].Source)
}

func TestGenerate_EmptyConfiguration(t *testing.T) {
	cells := Generate(Input{QuestID: questID, From: monday, To: monday.AddDate(0, 0, 30)})
	assert.Empty(t, cells)

	cells = Generate(Input{QuestID: questID, From: monday, To: monday.AddDate(0, 0, -1)})
	assert.Empty(t, cells)
}

func TestGenerate_Deterministic(t *testing.T) {
	input := Input{
		QuestID: questID,
		From:    monday,
		To:      monday.AddDate(0, 0, 13),
		Templates: []*domain.WeeklySlotTemplate{
			tpl(time.Monday, "10:00", 3000),
			tpl(time.Saturday, "20:00", 3000),
		},
		Rules: pricing.NewRuleSet(questID, []*domain.PricingRule{
			{ID: 1, QuestIDs: []int64{questID}, Price: ptr.Ptr(int64(1000)), Priority: 3, IsActive: true},
			{ID: 2, QuestIDs: []int64{questID}, Price: ptr.Ptr(int64(2000)), Priority: 3, IsActive: true},
		}),
	}

	first := Generate(input)
	second := Generate(input)

	assert.Equal(t, first, second)
	for _, c := range first {
		assert.Equal(t, int64(1000), c.Price)
	}
}
