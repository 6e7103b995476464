package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	calendarRepo "github.com/m04kA/SMC-QuestScheduleService/internal/infra/storage/calendar"
	"github.com/m04kA/SMC-QuestScheduleService/internal/service/calendar/models"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/logger"
)

type fakeCalendarRepo struct {
	days        map[string]*domain.CalendarDay
	upsertCalls int
	err         error
}

func newFakeCalendarRepo() *fakeCalendarRepo {
	return &fakeCalendarRepo{days: make(map[string]*domain.CalendarDay)}
}

func (r *fakeCalendarRepo) ListRange(_ context.Context, from, to time.Time) ([]*domain.CalendarDay, error) {
	if r.err != nil {
		return nil, r.err
	}
	var res []*domain.CalendarDay
	for _, d := range domain.DaysInRange(from, to) {
		if day, ok := r.days[domain.FormatDate(d)]; ok {
			res = append(res, day)
		}
	}
	return res, nil
}

func (r *fakeCalendarRepo) Upsert(_ context.Context, days []*domain.CalendarDay) error {
	if r.err != nil {
		return r.err
	}
	r.upsertCalls++
	for _, d := range days {
		r.days[domain.FormatDate(d.Date)] = d
	}
	return nil
}

func (r *fakeCalendarRepo) Delete(_ context.Context, date time.Time) error {
	key := domain.FormatDate(date)
	if _, ok := r.days[key]; !ok {
		return calendarRepo.ErrDayNotFound
	}
	delete(r.days, key)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newService(repo *fakeCalendarRepo) *Service {
	return NewService(repo, fakeTxManager{}, logger.NewNop())
}

func TestIsHoliday(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := newService(repo)

	_, err := svc.Upsert(context.Background(), &models.UpsertDaysRequest{Days: []models.DayEntry{
		{Date: "2024-01-01", IsHoliday: true, Title: "New Year"},
		{Date: "2024-01-06", IsHoliday: false, Title: "Working Saturday"},
	}})
	require.NoError(t, err)

	holiday, err := svc.IsHoliday(context.Background(), time.Date(2024, 1, 1, 18, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, holiday)

	holiday, err = svc.IsHoliday(context.Background(), time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, holiday)

	// неразмеченная дата
	holiday, err = svc.IsHoliday(context.Background(), time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, holiday)

	assert.Equal(t, domain.CalendarSourceManual, repo.days["2024-01-01"].Source)
}

func TestIsHoliday_StorageFailure(t *testing.T) {
	repo := newFakeCalendarRepo()
	repo.err = errors.New("db is down")

	_, err := newService(repo).IsHoliday(context.Background(), time.Now())

	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpsert_Validation(t *testing.T) {
	svc := newService(newFakeCalendarRepo())

	_, err := svc.Upsert(context.Background(), &models.UpsertDaysRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upsert(context.Background(), &models.UpsertDaysRequest{Days: []models.DayEntry{{Date: "1 Jan"}}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upsert(context.Background(), &models.UpsertDaysRequest{Days: []models.DayEntry{
		{Date: "2024-01-01"}, {Date: "2024-01-01"},
	}})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListRangeAndDelete(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := newService(repo)

	_, err := svc.Upsert(context.Background(), &models.UpsertDaysRequest{Days: []models.DayEntry{
		{Date: "2024-01-01", IsHoliday: true},
		{Date: "2024-01-02", IsHoliday: true},
		{Date: "2024-02-23", IsHoliday: true},
	}})
	require.NoError(t, err)

	resp, err := svc.ListRange(context.Background(), "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)

	_, err = svc.ListRange(context.Background(), "2024-01-31", "2024-01-01")
	assert.ErrorIs(t, err, ErrInvalidRange)

	require.NoError(t, svc.Delete(context.Background(), "2024-01-02"))
	assert.ErrorIs(t, svc.Delete(context.Background(), "2024-01-02"), ErrDayNotFound)
}

func TestImportCSV(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := newService(repo)

	input := strings.Join([]string{
		"date,is_holiday,title",
		"# январские праздники",
		"2024-01-01,true,Новый год",
		"2024-01-02, 1, Новогодние каникулы",
		"2024-04-27,false,\"Рабочая суббота, перенос\"",
		"2024-01-02,true,Новогодние каникулы",
	}, "\n")

	res, err := svc.ImportCSV(context.Background(), strings.NewReader(input))

	require.NoError(t, err)
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 2, res.Holidays)
	assert.Equal(t, "Рабочая суббота, перенос", repo.days["2024-04-27"].Title)
	assert.Equal(t, domain.CalendarSourceImport, repo.days["2024-01-01"].Source)
	assert.Equal(t, 1, repo.upsertCalls)
}

func TestImportCSV_InvalidFileNotImported(t *testing.T) {
	repo := newFakeCalendarRepo()
	svc := newService(repo)

	input := "2024-01-01,true,Новый год\n2024-13-01,true,Bad\n"

	_, err := svc.ImportCSV(context.Background(), strings.NewReader(input))

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, repo.days)
}
