package generate_schedule

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	questRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/quest"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/logger"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

type fakeQuestRepo struct {
	quests map[int64]*domain.Quest
}

func (r *fakeQuestRepo) GetByID(_ context.Context, id int64) (*domain.Quest, error) {
	q, ok := r.quests[id]
	if !ok {
		return nil, questRepo.ErrQuestNotFound
	}
	return q, nil
}

func (r *fakeQuestRepo) ListActive(_ context.Context) ([]*domain.Quest, error) {
	out := make([]*domain.Quest, 0, len(r.quests))
	for _, q := range r.quests {
		if q.IsActive {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeScheduleRepo struct {
	templates map[int64][]*domain.WeeklySlotTemplate
	overrides map[int64][]*domain.DateOverride
}

func (r *fakeScheduleRepo) GetWeeklyTemplate(_ context.Context, questID int64) ([]*domain.WeeklySlotTemplate, error) {
	return r.templates[questID], nil
}

func (r *fakeScheduleRepo) ListOverrides(_ context.Context, questID int64, _, _ time.Time) ([]*domain.DateOverride, error) {
	return r.overrides[questID], nil
}

type fakeRuleRepo struct {
	rules []*domain.PricingRule
}

func (r *fakeRuleRepo) List(_ context.Context, _ domain.PricingRuleFilter) ([]*domain.PricingRule, error) {
	return r.rules, nil
}

type fakeCalendarRepo struct {
	days []*domain.CalendarDay
}

func (r *fakeCalendarRepo) ListRange(_ context.Context, _, _ time.Time) ([]*domain.CalendarDay, error) {
	return r.days, nil
}

// fakeSlotRepo хранилище слотов в памяти
type fakeSlotRepo struct {
	nextID int64
	slots  map[int64]*domain.Slot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[int64]*domain.Slot)}
}

func (r *fakeSlotRepo) List(_ context.Context, filter domain.SlotFilter) ([]*domain.Slot, error) {
	out := make([]*domain.Slot, 0)
	for _, s := range r.slots {
		if s.QuestID != filter.QuestID || s.Date.Before(filter.FromDate) || s.Date.After(filter.ToDate) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeSlotRepo) InsertIfAbsent(_ context.Context, g domain.GeneratedSlot) (bool, error) {
	for _, s := range r.slots {
		if s.Key() == g.Key() {
			return false, nil
		}
	}
	r.nextID++
	r.slots[r.nextID] = &domain.Slot{ID: r.nextID, QuestID: g.QuestID, Date: g.Date, StartTime: g.StartTime, Price: g.Price}
	return true, nil
}

func (r *fakeSlotRepo) UpdatePriceIfFree(_ context.Context, id int64, price int64) (bool, error) {
	s, ok := r.slots[id]
	if !ok || s.IsBooked {
		return false, nil
	}
	s.Price = price
	return true, nil
}

func (r *fakeSlotRepo) DeleteFree(_ context.Context, ids []int64) (int64, error) {
	var n int64
	for _, id := range ids {
		if s, ok := r.slots[id]; ok && !s.IsBooked {
			delete(r.slots, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeSlotRepo) find(date time.Time, start string) *domain.Slot {
	for _, s := range r.slots {
		if s.Date.Equal(date) && s.StartTime.String() == start {
			return s
		}
	}
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	counts map[string]int
}

func (m *fakeMetrics) AddGeneratedSlots(action string, count int) {
	if m.counts == nil {
		m.counts = make(map[string]int)
	}
	m.counts[action] += count
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fixture struct {
	quests   *fakeQuestRepo
	schedule *fakeScheduleRepo
	rules    *fakeRuleRepo
	calendar *fakeCalendarRepo
	slots    *fakeSlotRepo
	metrics  *fakeMetrics
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		quests: &fakeQuestRepo{quests: map[int64]*domain.Quest{
			1: {ID: 1, Name: "Шерлок", IsActive: true},
			2: {ID: 2, Name: "Пила", IsActive: true},
			3: {ID: 3, Name: "Архив", IsActive: false},
		}},
		schedule: &fakeScheduleRepo{
			templates: map[int64][]*domain.WeeklySlotTemplate{},
			overrides: map[int64][]*domain.DateOverride{},
		},
		rules:    &fakeRuleRepo{},
		calendar: &fakeCalendarRepo{},
		slots:    newFakeSlotRepo(),
		metrics:  &fakeMetrics{},
	}

	settings := domain.EngineSettings{Location: time.UTC, BookingDaysAhead: 6, BookingCutoff: time.Hour}
	f.uc = NewUseCase(f.quests, f.schedule, f.rules, f.calendar, f.slots, fakeTxManager{}, f.metrics, settings, logger.NewNop()).
		WithTimeProvider(fixedTime{t: monday.Add(8 * time.Hour)})

	return f
}

func rangeReq(questID int64, from, to time.Time) *Request {
	return &Request{QuestID: &questID, From: &from, To: &to}
}

func TestExecute_HolidayPriceEndToEnd(t *testing.T) {
	f := newFixture()
	entry := tpl(time.Monday, "10:00", 3000)
	f.schedule.templates[1] = []*domain.WeeklySlotTemplate{entry}
	f.calendar.days = []*domain.CalendarDay{{Date: monday, IsHoliday: true, Title: "Новый год"}}

	resp, err := f.uc.Execute(context.Background(), rangeReq(1, monday, monday))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total.Created)
	assert.Equal(t, int64(3000), f.slots.find(monday, "10:00").Price)

	entry.HolidayPrice = ptr.Ptr(int64(4000))

	resp, err = f.uc.Execute(context.Background(), rangeReq(1, monday, monday))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total.Created)
	assert.Equal(t, 1, resp.Total.Updated)
	assert.Equal(t, int64(4000), f.slots.find(monday, "10:00").Price)
}

func TestExecute_BlockingRuleEndToEnd(t *testing.T) {
	f := newFixture()
	f.schedule.templates[1] = []*domain.WeeklySlotTemplate{tpl(time.Monday, "10:00", 3000)}

	_, err := f.uc.Execute(context.Background(), rangeReq(1, monday, monday))
	require.NoError(t, err)
	require.NotNil(t, f.slots.find(monday, "10:00"))

	f.rules.rules = []*domain.PricingRule{{
		ID:        1,
		QuestIDs:  []int64{1},
		Weekdays:  []time.Weekday{time.Monday},
		TimeFrom:  tsPtr("09:00"),
		TimeTo:    tsPtr("12:00"),
		IsBlocked: true,
		Priority:  10,
		IsActive:  true,
	}}

	resp, err := f.uc.Execute(context.Background(), rangeReq(1, monday, monday))
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total.Blocked)
	assert.Equal(t, 1, resp.Total.Removed, "newly blocked free slot is removed")
	assert.Nil(t, f.slots.find(monday, "10:00"))
}

func TestExecute_RegenerationNeverTouchesBookedSlots(t *testing.T) {
	f := newFixture()
	f.schedule.templates[1] = []*domain.WeeklySlotTemplate{
		tpl(time.Monday, "10:00", 3000),
		tpl(time.Monday, "12:00", 3000),
	}

	_, err := f.uc.Execute(context.Background(), rangeReq(1, monday, monday))
	require.NoError(t, err)

	booked := f.slots.find(monday, "10:00")
	bookingID := int64(77)
	booked.IsBooked = true
	booked.BookingID = &bookingID

	// цена меняется, 10:00 убирается из шаблона
	f.schedule.templates[1] = []*domain.WeeklySlotTemplate{tpl(time.Monday, "12:00", 5000)}

	resp, err := f.uc.Execute(context.Background(), rangeReq(1, monday, monday))
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Total.SkippedBooked)
	assert.Equal(t, 1, resp.Total.Updated)
	assert.Equal(t, 0, resp.Total.Removed)

	kept := f.slots.find(monday, "10:00")
	require.NotNil(t, kept)
	assert.Equal(t, int64(3000), kept.Price)
	assert.True(t, kept.IsBooked)
	assert.Equal(t, int64(5000), f.slots.find(monday, "12:00").Price)

	// повторный прогон с теми же данными ничего не меняет
	resp, err = f.uc.Execute(context.Background(), rangeReq(1, monday, monday))
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Total.Created)
	assert.Equal(t, 0, resp.Total.Updated)
	assert.Equal(t, 1, resp.Total.Unchanged)
	assert.Len(t, f.slots.slots, 2)
}

func TestExecute_AllQuestsDefaultWindow(t *testing.T) {
	f := newFixture()
	for _, id := range []int64{1, 2, 3} {
		f.schedule.templates[id] = []*domain.WeeklySlotTemplate{
			{QuestID: id, Weekday: time.Monday, StartTime: types.MustTimeString("10:00"), Price: 3000},
			{QuestID: id, Weekday: time.Sunday, StartTime: types.MustTimeString("10:00"), Price: 3000},
		}
	}

	resp, err := f.uc.Execute(context.Background(), &Request{})
	require.NoError(t, err)

	// окно по умолчанию: понедельник .. понедельник + 6 дней (воскресенье), только активные квесты
	assert.Equal(t, "2024-01-01", domain.FormatDate(resp.From))
	assert.Equal(t, "2024-01-07", domain.FormatDate(resp.To))
	require.Len(t, resp.Quests, 2)
	assert.Equal(t, 4, resp.Total.Created)
	assert.Equal(t, 4, f.metrics.counts[ActionCreated])
}

func TestExecute_Errors(t *testing.T) {
	f := newFixture()

	t.Run("reversed range", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), rangeReq(1, monday, monday.AddDate(0, 0, -1)))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("range too long", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), rangeReq(1, monday, monday.AddDate(2, 0, 0)))
		assert.ErrorIs(t, err, ErrInvalidRange)
	})

	t.Run("quest not found", func(t *testing.T) {
		_, err := f.uc.Execute(context.Background(), rangeReq(42, monday, monday))
		assert.ErrorIs(t, err, ErrQuestNotFound)
	})

	t.Run("no template yields zero slots", func(t *testing.T) {
		resp, err := f.uc.Execute(context.Background(), rangeReq(2, monday, monday.AddDate(0, 0, 6)))
		require.NoError(t, err)
		assert.Equal(t, 0, resp.Total.Created)
	})
}

type failingCalendarRepo struct{}

func (failingCalendarRepo) ListRange(_ context.Context, _, _ time.Time) ([]*domain.CalendarDay, error) {
	return nil, errors.New("connection refused")
}

func TestExecute_StorageFailure(t *testing.T) {
	f := newFixture()
	uc := NewUseCase(f.quests, f.schedule, f.rules, failingCalendarRepo{}, f.slots, fakeTxManager{}, f.metrics,
		domain.EngineSettings{Location: time.UTC}, logger.NewNop())

	_, err := uc.Execute(context.Background(), rangeReq(1, monday, monday))

	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestPreview_IncludesBlockedCells(t *testing.T) {
	f := newFixture()
	f.schedule.templates[1] = []*domain.WeeklySlotTemplate{tpl(time.Monday, "10:00", 3000)}
	f.rules.rules = []*domain.PricingRule{{ID: 1, QuestIDs: []int64{1}, IsBlocked: true, IsActive: true}}

	resp, err := f.uc.Preview(context.Background(), rangeReq(1, monday, monday))

	require.NoError(t, err)
	require.Len(t, resp.Cells, 1)
	assert.True(t, resp.Cells[0].Blocked)
	assert.Empty(t, f.slots.slots, "preview does not persist")
}
