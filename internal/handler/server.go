// Package handler implements the HTTP handlers for the WanderWise API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (health.go, trip.go, budget.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/xgraupera/WanderWise/internal/domain"
)

// AuthServicer defines the account operations the auth handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type AuthServicer interface {
	Register(ctx context.Context, email, name, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// TripServicer defines the business operations the trip handlers depend on.
type TripServicer interface {
	Create(ctx context.Context, ownerID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Summary(ctx context.Context, tripID uuid.UUID) (domain.TripSummary, error)
}

// BudgetServicer defines the ledger operations the budget handlers depend on.
type BudgetServicer interface {
	EnsureCategories(ctx context.Context, tripID uuid.UUID) (domain.BudgetReport, error)
	Replace(ctx context.Context, tripID uuid.UUID, categories []domain.BudgetCategory) error
	DeleteCategory(ctx context.Context, tripID uuid.UUID, category string) error
}

// ExpenseServicer defines the operations the expense handlers depend on.
type ExpenseServicer interface {
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.Expense, error)
	Replace(ctx context.Context, tripID uuid.UUID, ownerID string, incoming []domain.Expense) (int, error)
}

// ItineraryServicer defines the operations the itinerary handlers depend on.
type ItineraryServicer interface {
	GetOrBootstrap(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error)
	Replace(ctx context.Context, tripID uuid.UUID, days []domain.ItineraryDay) ([]domain.ItineraryDay, error)
}

// ReservationServicer defines the operations the reservation handlers depend on.
type ReservationServicer interface {
	GetOrBootstrap(ctx context.Context, tripID uuid.UUID) ([]domain.Reservation, error)
	Save(ctx context.Context, tripID uuid.UUID, reservations []domain.Reservation, notifyEmail string) ([]domain.Reservation, error)
}

// ChecklistServicer defines the operations the checklist handlers depend on.
type ChecklistServicer interface {
	GetOrBootstrap(ctx context.Context, tripID uuid.UUID) ([]domain.ChecklistItem, error)
	Replace(ctx context.Context, tripID uuid.UUID, items []domain.ChecklistItem) ([]domain.ChecklistItem, error)
}

// ReminderSweeper defines the sweep operation the reminder handler depends on.
type ReminderSweeper interface {
	SweepDue(ctx context.Context, now time.Time) (int, error)
}

// Server holds the handlers' dependencies. Methods are in domain-specific
// files but all operate on this struct.
type Server struct {
	auth         AuthServicer
	trips        TripServicer
	budgets      BudgetServicer
	expenses     ExpenseServicer
	itinerary    ItineraryServicer
	reservations ReservationServicer
	checklist    ChecklistServicer
	reminders    ReminderSweeper
	log          *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
func NewServer(
	auth AuthServicer,
	trips TripServicer,
	budgets BudgetServicer,
	expenses ExpenseServicer,
	itinerary ItineraryServicer,
	reservations ReservationServicer,
	checklist ChecklistServicer,
	reminders ReminderSweeper,
	log *slog.Logger,
) *Server {
	return &Server{
		auth:         auth,
		trips:        trips,
		budgets:      budgets,
		expenses:     expenses,
		itinerary:    itinerary,
		reservations: reservations,
		checklist:    checklist,
		reminders:    reminders,
		log:          log,
	}
}

// Routes registers every endpoint on a fresh chi router. authenticate guards
// everything under /api except the account endpoints, which must be reachable
// before a session exists.
func (s *Server) Routes(authenticate func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.Register)
		r.Post("/login", s.Login)
		r.Post("/recover", s.RequestPasswordReset)
		r.Post("/recover/reset", s.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Get("/trips", s.ListTrips)
			r.Post("/trips", s.CreateTrip)
			r.Route("/trips/{id}", func(r chi.Router) {
				r.Get("/", s.GetTrip)
				r.Put("/", s.UpdateTrip)
				r.Delete("/", s.DeleteTrip)
				r.Get("/summary", s.GetTripSummary)

				r.Get("/budgets", s.GetBudgets)
				r.Put("/budgets", s.PutBudgets)
				r.Delete("/budgets/{category}", s.DeleteBudgetCategory)

				r.Get("/expenses", s.GetExpenses)
				r.Put("/expenses", s.PutExpenses)

				r.Get("/itinerary", s.GetItinerary)
				r.Put("/itinerary", s.PutItinerary)

				r.Get("/reservations", s.GetReservations)
				r.Put("/reservations", s.PutReservations)

				r.Get("/checklist", s.GetChecklist)
				r.Put("/checklist", s.PutChecklist)
			})

			r.Post("/reminders/sweep", s.SweepReminders)
		})
	})

	return r
}

// authorizeTrip loads the trip and verifies the principal owns it. A trip
// that exists but belongs to someone else reads as not found so the API
// never confirms foreign trip IDs.
func (s *Server) authorizeTrip(ctx context.Context, tripID uuid.UUID) (domain.Trip, error) {
	principal, ok := principalFrom(ctx)
	if !ok {
		return domain.Trip{}, domain.ErrInvalidCredentials
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.OwnerID != principal.UserID {
		return domain.Trip{}, domain.ErrNotFound
	}
	return trip, nil
}
