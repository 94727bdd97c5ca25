package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/repo"
	"github.com/xgraupera/WanderWise/internal/service"
)

// Hand-written test doubles for the repo interfaces. Each method is a
// function field — set only the ones your test needs; an unset method that
// gets called panics, which is exactly the signal you want from a test.

type mockTripRepo struct {
	create      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByOwner func(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete      func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByOwner(ctx, ownerID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockBudgetRepo struct {
	listByTripID     func(ctx context.Context, tripID uuid.UUID) ([]domain.BudgetCategory, error)
	insertMissing    func(ctx context.Context, tripID uuid.UUID, categories []string) error
	replaceAll       func(ctx context.Context, tripID uuid.UUID, categories []domain.BudgetCategory) error
	deleteByCategory func(ctx context.Context, tripID uuid.UUID, category string) error
}

func (m *mockBudgetRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.BudgetCategory, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockBudgetRepo) InsertMissing(ctx context.Context, tripID uuid.UUID, categories []string) error {
	return m.insertMissing(ctx, tripID, categories)
}
func (m *mockBudgetRepo) ReplaceAll(ctx context.Context, tripID uuid.UUID, categories []domain.BudgetCategory) error {
	return m.replaceAll(ctx, tripID, categories)
}
func (m *mockBudgetRepo) DeleteByCategory(ctx context.Context, tripID uuid.UUID, category string) error {
	return m.deleteByCategory(ctx, tripID, category)
}

var _ repo.BudgetRepo = (*mockBudgetRepo)(nil)

type mockExpenseRepo struct {
	listByTripID        func(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	replaceForOwner     func(ctx context.Context, tripID uuid.UUID, ownerID string, expenses []domain.Expense) (int, error)
	sumSharesByCategory func(ctx context.Context, tripID uuid.UUID) (map[string]float64, error)
	sumShares           func(ctx context.Context, tripID uuid.UUID) (float64, error)
	recomputeShares     func(ctx context.Context, tripID uuid.UUID, travelers int) error
}

func (m *mockExpenseRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockExpenseRepo) ReplaceForOwner(ctx context.Context, tripID uuid.UUID, ownerID string, expenses []domain.Expense) (int, error) {
	return m.replaceForOwner(ctx, tripID, ownerID, expenses)
}
func (m *mockExpenseRepo) SumSharesByCategory(ctx context.Context, tripID uuid.UUID) (map[string]float64, error) {
	return m.sumSharesByCategory(ctx, tripID)
}
func (m *mockExpenseRepo) SumShares(ctx context.Context, tripID uuid.UUID) (float64, error) {
	return m.sumShares(ctx, tripID)
}
func (m *mockExpenseRepo) RecomputeShares(ctx context.Context, tripID uuid.UUID, travelers int) error {
	return m.recomputeShares(ctx, tripID, travelers)
}

var _ repo.ExpenseRepo = (*mockExpenseRepo)(nil)

type mockItineraryRepo struct {
	listByTripID  func(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error)
	insertMissing func(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) error
	replaceAll    func(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) ([]domain.ItineraryDay, error)
}

func (m *mockItineraryRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockItineraryRepo) InsertMissing(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) error {
	return m.insertMissing(ctx, tripID, days)
}
func (m *mockItineraryRepo) ReplaceAll(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) ([]domain.ItineraryDay, error) {
	return m.replaceAll(ctx, tripID, days)
}

var _ repo.ItineraryRepo = (*mockItineraryRepo)(nil)

type mockReservationRepo struct {
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error)
	createMany   func(ctx context.Context, reservations []domain.Reservation) ([]domain.Reservation, error)
	upsertPrune  func(ctx context.Context, tripID uuid.UUID, reservations []domain.Reservation) ([]domain.Reservation, error)
}

func (m *mockReservationRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockReservationRepo) CreateMany(ctx context.Context, reservations []domain.Reservation) ([]domain.Reservation, error) {
	return m.createMany(ctx, reservations)
}
func (m *mockReservationRepo) UpsertPrune(ctx context.Context, tripID uuid.UUID, reservations []domain.Reservation) ([]domain.Reservation, error) {
	return m.upsertPrune(ctx, tripID, reservations)
}

var _ repo.ReservationRepo = (*mockReservationRepo)(nil)

type mockReminderRepo struct {
	getByReservationID    func(ctx context.Context, reservationID uuid.UUID) (domain.Reminder, error)
	create                func(ctx context.Context, reminder domain.Reminder) (domain.Reminder, error)
	updateSchedule        func(ctx context.Context, id uuid.UUID, email string, sendAt time.Time, rearm bool) error
	deleteByReservationID func(ctx context.Context, reservationID uuid.UUID) error
	claimDue              func(ctx context.Context, now time.Time, limit int) ([]domain.DueReminder, error)
	resetSent             func(ctx context.Context, id uuid.UUID) error
}

func (m *mockReminderRepo) GetByReservationID(ctx context.Context, reservationID uuid.UUID) (domain.Reminder, error) {
	return m.getByReservationID(ctx, reservationID)
}
func (m *mockReminderRepo) Create(ctx context.Context, reminder domain.Reminder) (domain.Reminder, error) {
	return m.create(ctx, reminder)
}
func (m *mockReminderRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, email string, sendAt time.Time, rearm bool) error {
	return m.updateSchedule(ctx, id, email, sendAt, rearm)
}
func (m *mockReminderRepo) DeleteByReservationID(ctx context.Context, reservationID uuid.UUID) error {
	return m.deleteByReservationID(ctx, reservationID)
}
func (m *mockReminderRepo) ClaimDue(ctx context.Context, now time.Time, limit int) ([]domain.DueReminder, error) {
	return m.claimDue(ctx, now, limit)
}
func (m *mockReminderRepo) ResetSent(ctx context.Context, id uuid.UUID) error {
	return m.resetSent(ctx, id)
}

var _ repo.ReminderRepo = (*mockReminderRepo)(nil)

type mockChecklistRepo struct {
	listByTripID func(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error)
	createMany   func(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error)
	replaceAll   func(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error)
}

func (m *mockChecklistRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error) {
	return m.listByTripID(ctx, tripID)
}
func (m *mockChecklistRepo) CreateMany(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
	return m.createMany(ctx, tripID, items)
}
func (m *mockChecklistRepo) ReplaceAll(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error) {
	return m.replaceAll(ctx, tripID, items)
}

var _ repo.ChecklistRepo = (*mockChecklistRepo)(nil)

type mockUserRepo struct {
	create          func(ctx context.Context, user domain.User) (domain.User, error)
	getByEmail      func(ctx context.Context, email string) (domain.User, error)
	getByID         func(ctx context.Context, id uuid.UUID) (domain.User, error)
	setResetToken   func(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	getByResetToken func(ctx context.Context, token string, now time.Time) (domain.User, error)
	updatePassword  func(ctx context.Context, id uuid.UUID, passwordHash string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	return m.create(ctx, user)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return m.getByEmail(ctx, email)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.getByID(ctx, id)
}
func (m *mockUserRepo) SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	return m.setResetToken(ctx, id, token, expiresAt)
}
func (m *mockUserRepo) GetByResetToken(ctx context.Context, token string, now time.Time) (domain.User, error) {
	return m.getByResetToken(ctx, token, now)
}
func (m *mockUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.updatePassword(ctx, id, passwordHash)
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// mockSender records outbound notifications and optionally fails specific
// recipients. Safe for concurrent use: the sweep delivers in parallel.
type mockSender struct {
	mu      sync.Mutex
	sent    []sentMail
	failFor map[string]error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *mockSender) Send(_ context.Context, to, subject, body string) error {
	if err, ok := m.failFor[to]; ok {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *mockSender) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, s := range m.sent {
		out[i] = s.to
	}
	return out
}

var _ service.Sender = (*mockSender)(nil)

// ---- shared fixtures -------------------------------------------------------

// validTrip returns a ten-day, two-traveler trip for use as a base fixture.
func validTrip() domain.Trip {
	return domain.Trip{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		Name:         "Japan 2026",
		StartDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		DurationDays: 10,
		Travelers:    2,
	}
}

// tripStore returns a trip repo whose GetByID always finds the given trip.
func tripStore(trip domain.Trip) *mockTripRepo {
	return &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
}
