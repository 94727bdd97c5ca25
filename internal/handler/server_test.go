package handler_test

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
	"github.com/xgraupera/WanderWise/internal/handler"
	"github.com/xgraupera/WanderWise/internal/middleware"
)

// Test doubles for the servicer interfaces. Set only the method fields your
// test needs.

type mockTripServicer struct {
	create      func(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	getByID     func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	listByOwner func(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update      func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete      func(ctx context.Context, id uuid.UUID) error
	summary     func(ctx context.Context, tripID uuid.UUID) (domain.TripSummary, error)
}

func (m *mockTripServicer) Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, ownerID, trip)
}
func (m *mockTripServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripServicer) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByOwner(ctx, ownerID, p)
}
func (m *mockTripServicer) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripServicer) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripServicer) Summary(ctx context.Context, tripID uuid.UUID) (domain.TripSummary, error) {
	return m.summary(ctx, tripID)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockBudgetServicer struct {
	ensureCategories func(ctx context.Context, tripID uuid.UUID) (domain.BudgetReport, error)
	replace          func(ctx context.Context, tripID uuid.UUID, categories []domain.BudgetCategory) error
	deleteCategory   func(ctx context.Context, tripID uuid.UUID, category string) error
}

func (m *mockBudgetServicer) EnsureCategories(ctx context.Context, tripID uuid.UUID) (domain.BudgetReport, error) {
	return m.ensureCategories(ctx, tripID)
}
func (m *mockBudgetServicer) Replace(ctx context.Context, tripID uuid.UUID, categories []domain.BudgetCategory) error {
	return m.replace(ctx, tripID, categories)
}
func (m *mockBudgetServicer) DeleteCategory(ctx context.Context, tripID uuid.UUID, category string) error {
	return m.deleteCategory(ctx, tripID, category)
}

var _ handler.BudgetServicer = (*mockBudgetServicer)(nil)

type mockSweeper struct {
	sweepDue func(ctx context.Context, now time.Time) (int, error)
}

func (m *mockSweeper) SweepDue(ctx context.Context, now time.Time) (int, error) {
	return m.sweepDue(ctx, now)
}

var _ handler.ReminderSweeper = (*mockSweeper)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testPrincipal is the fixed identity injected by the stub authenticator.
var testPrincipal = domain.Principal{UserID: uuid.New(), Email: "ana@example.com"}

// stubAuth stamps testPrincipal on every request, standing in for the real
// bearer-token middleware.
func stubAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.ContextWithPrincipal(r.Context(), testPrincipal)))
	})
}

// serverOpts mutates the zero-value dependency set before the Server is built.
type serverOpts struct {
	trips   handler.TripServicer
	budgets handler.BudgetServicer
	sweeper handler.ReminderSweeper
}

// newTestRouter wires a Server with the given mocks into the full route tree,
// exactly as main.go does, but with the stub authenticator.
func newTestRouter(opts serverOpts) http.Handler {
	srv := handler.NewServer(nil, opts.trips, opts.budgets, nil, nil, nil, nil, opts.sweeper, discardLogger())
	return srv.Routes(stubAuth)
}

// ownedTrip returns a trip owned by testPrincipal.
func ownedTrip() domain.Trip {
	return domain.Trip{
		ID:           uuid.New(),
		OwnerID:      testPrincipal.UserID,
		Name:         "Japan 2026",
		StartDate:    time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC),
		DurationDays: 10,
		Travelers:    2,
	}
}

// getterFor returns a GetByID that serves exactly the given trip.
func getterFor(trip domain.Trip) func(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
		if id != trip.ID {
			return domain.Trip{}, domain.ErrNotFound
		}
		return trip, nil
	}
}
