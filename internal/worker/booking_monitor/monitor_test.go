package booking_monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/internal/infra/lock"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/logger"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/ptr"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

var now = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

type fakeBookingRepo struct {
	mu            sync.Mutex
	bookings      map[int64]*domain.Booking
	transitionErr map[int64]error
	listErr       error
}

func newFakeBookingRepo(bookings ...*domain.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{
		bookings:      make(map[int64]*domain.Booking),
		transitionErr: make(map[int64]error),
	}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *fakeBookingRepo) ListExpiredAwaiting(_ context.Context, createdBefore time.Time, limit int) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var res []*domain.Booking
	for id := int64(1); id <= int64(len(r.bookings)) && len(res) < limit; id++ {
		b := r.bookings[id]
		if b != nil && b.IsAwaitingConfirmation() && !b.CreatedAt.After(createdBefore) {
			cp := *b
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *fakeBookingRepo) ListConfirmedUntil(_ context.Context, date time.Time, limit int) ([]*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []*domain.Booking
	for id := int64(1); id <= int64(len(r.bookings)) && len(res) < limit; id++ {
		b := r.bookings[id]
		if b != nil && b.Status == domain.StatusConfirmed && b.SlotDate != nil && !b.SlotDate.After(date) {
			cp := *b
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *fakeBookingRepo) TransitionStatus(_ context.Context, id int64, from []domain.BookingStatus, to domain.BookingStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.transitionErr[id]; err != nil {
		return false, err
	}
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	for _, s := range from {
		if b.Status == s {
			b.Status = to
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) status(id int64) domain.BookingStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bookings[id].Status
}

// fakeReleaser слоты: slotID -> bookingID
type fakeReleaser struct {
	mu    sync.Mutex
	owner map[int64]int64
	calls int
}

func (f *fakeReleaser) ReleaseForBooking(_ context.Context, slotID, bookingID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if owner, ok := f.owner[slotID]; !ok || owner != bookingID {
		return false, nil
	}
	delete(f.owner, slotID)
	return true, nil
}

type fakeTxManager struct{}

func (fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	mu          sync.Mutex
	transitions map[string]int
	errors      int
	ticks       int
}

func (m *fakeMetrics) IncMonitorTransition(to string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.transitions == nil {
		m.transitions = make(map[string]int)
	}
	m.transitions[to]++
}

func (m *fakeMetrics) IncMonitorError() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors++
}

func (m *fakeMetrics) ObserveMonitorTick(time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ticks++
}

// busyLocker блокировка, которую всегда держит другая реплика
type busyLocker struct{}

func (busyLocker) TryLock(context.Context, string, time.Duration) (string, error) { return "", nil }
func (busyLocker) Unlock(context.Context, string, string) error { return nil }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func settings() domain.EngineSettings {
	return domain.EngineSettings{
		Location:         time.UTC,
		BookingCutoff:    time.Hour,
		BookingDaysAhead: 30,
		SessionDuration:  time.Hour,
	}
}

func newMonitor(repo *fakeBookingRepo, rel *fakeReleaser, m *fakeMetrics) *Monitor {
	cfg := Config{Interval: time.Minute, PendingTimeout: 30 * time.Minute, BatchSize: 10}
	return NewMonitor(cfg, repo, rel, fakeTxManager{}, lock.NoopLocker{}, m, settings(), logger.NewNop()).
		WithTimeProvider(fixedTime{t: now})
}

func awaiting(id, slotID int64, status domain.BookingStatus, age time.Duration) *domain.Booking {
	return &domain.Booking{ID: id, QuestID: 1, SlotID: ptr.Ptr(slotID), Status: status, CreatedAt: now.Add(-age)}
}

func confirmed(id int64, date time.Time, start string) *domain.Booking {
	return &domain.Booking{
		ID:            id,
		QuestID:       1,
		SlotID:        ptr.Ptr(id + 100),
		Status:        domain.StatusConfirmed,
		SlotDate:      ptr.Ptr(date),
		SlotStartTime: ptr.Ptr(types.MustTimeString(start)),
		CreatedAt:     now.Add(-48 * time.Hour),
	}
}

func TestTick_CancelsExpiredAndReleasesSlots(t *testing.T) {
	repo := newFakeBookingRepo(
		awaiting(1, 11, domain.StatusPending, 31*time.Minute),
		awaiting(2, 12, domain.StatusCreated, 2*time.Hour),
		awaiting(3, 13, domain.StatusPending, 10*time.Minute), // еще не истек
	)
	rel := &fakeReleaser{owner: map[int64]int64{11: 1, 12: 2, 13: 3}}
	m := &fakeMetrics{}

	res, err := newMonitor(repo, rel, m).Tick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Cancelled)
	assert.Equal(t, 2, res.Released)
	assert.Equal(t, domain.StatusCancelled, repo.status(1))
	assert.Equal(t, domain.StatusCancelled, repo.status(2))
	assert.Equal(t, domain.StatusPending, repo.status(3))
	assert.Equal(t, map[int64]int64{13: 3}, rel.owner)
	assert.Equal(t, 2, m.transitions[string(domain.StatusCancelled)])
}

func TestTick_SlotAlreadyReleasedManually(t *testing.T) {
	repo := newFakeBookingRepo(awaiting(1, 11, domain.StatusPending, time.Hour))
	// слот уже освобожден вручную и занят другим бронированием
	rel := &fakeReleaser{owner: map[int64]int64{11: 99}}

	res, err := newMonitor(repo, rel, &fakeMetrics{}).Tick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Cancelled)
	assert.Equal(t, 0, res.Released)
	assert.Equal(t, int64(99), rel.owner[11])
}

func TestTick_SecondTickDoesNotReleaseAgain(t *testing.T) {
	repo := newFakeBookingRepo(awaiting(1, 11, domain.StatusPending, time.Hour))
	rel := &fakeReleaser{owner: map[int64]int64{11: 1}}
	mon := newMonitor(repo, rel, &fakeMetrics{})

	_, err := mon.Tick(context.Background())
	require.NoError(t, err)
	res, err := mon.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, res.Cancelled)
	assert.Equal(t, 1, rel.calls)
}

func TestTick_BookingWithoutSlot(t *testing.T) {
	b := awaiting(1, 0, domain.StatusCreated, time.Hour)
	b.SlotID = nil
	repo := newFakeBookingRepo(b)
	rel := &fakeReleaser{}

	res, err := newMonitor(repo, rel, &fakeMetrics{}).Tick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Cancelled)
	assert.Equal(t, 0, rel.calls)
}

func TestTick_ItemErrorDoesNotStopBatch(t *testing.T) {
	repo := newFakeBookingRepo(
		awaiting(1, 11, domain.StatusPending, time.Hour),
		awaiting(2, 12, domain.StatusPending, time.Hour),
	)
	repo.transitionErr[1] = errors.New("db is down")
	rel := &fakeReleaser{owner: map[int64]int64{11: 1, 12: 2}}
	m := &fakeMetrics{}

	res, err := newMonitor(repo, rel, m).Tick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Cancelled)
	assert.Equal(t, domain.StatusPending, repo.status(1))
	assert.Equal(t, domain.StatusCancelled, repo.status(2))
	assert.Equal(t, 1, m.errors)
}

func TestTick_CompletesElapsedConfirmed(t *testing.T) {
	today := domain.DateOnly(now)
	repo := newFakeBookingRepo(
		confirmed(1, today.AddDate(0, 0, -1), "20:00"), // вчера
		confirmed(2, today, "13:00"),                   // закончилась в 14:00
		confirmed(3, today, "14:30"),                   // идет сейчас
	)
	m := &fakeMetrics{}

	res, err := newMonitor(repo, &fakeReleaser{}, m).Tick(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Completed)
	assert.Equal(t, domain.StatusCompleted, repo.status(1))
	assert.Equal(t, domain.StatusCompleted, repo.status(2))
	assert.Equal(t, domain.StatusConfirmed, repo.status(3))
	assert.Equal(t, 2, m.transitions[string(domain.StatusCompleted)])
}

func TestTick_ListErrorReturned(t *testing.T) {
	repo := newFakeBookingRepo()
	repo.listErr = errors.New("connection refused")

	_, err := newMonitor(repo, &fakeReleaser{}, &fakeMetrics{}).Tick(context.Background())

	assert.Error(t, err)
}

func TestTick_SkippedWhenLockBusy(t *testing.T) {
	repo := newFakeBookingRepo(awaiting(1, 11, domain.StatusPending, time.Hour))
	cfg := Config{Interval: time.Minute, PendingTimeout: 30 * time.Minute, BatchSize: 10}
	mon := NewMonitor(cfg, repo, &fakeReleaser{}, fakeTxManager{}, busyLocker{}, &fakeMetrics{}, settings(), logger.NewNop()).
		WithTimeProvider(fixedTime{t: now})

	res, err := mon.Tick(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, domain.StatusPending, repo.status(1))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	repo := newFakeBookingRepo()
	repo.listErr = errors.New("db is down")
	m := &fakeMetrics{}
	cfg := Config{Interval: 5 * time.Millisecond, PendingTimeout: time.Minute, BatchSize: 10}
	mon := NewMonitor(cfg, repo, &fakeReleaser{}, fakeTxManager{}, lock.NoopLocker{}, m, settings(), logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mon.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// ошибки тиков не останавливают цикл
	assert.Greater(t, m.ticks, 1)
	assert.Greater(t, m.errors, 1)
}
