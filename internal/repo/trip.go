package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/xgraupera/WanderWise/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip (and its visited cities) and returns the
	// persisted record with DB-generated fields populated.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key, cities included.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns one page of the owner's trips ordered by start_date
	// descending, plus the total trip count for that owner.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)

	// Update overwrites the mutable fields of an existing trip and replaces its
	// city list, all in one transaction. Returns domain.ErrNotFound if no trip
	// with that ID exists.
	Update(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip by ID. All dependent rows (budgets, expenses,
	// itinerary, reservations, reminders, checklist) cascade at the schema
	// level. Returns domain.ErrNotFound if the trip does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, owner_id, name, start_date, end_date, duration_days, travelers, lat, lon, description, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	var result domain.Trip
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
			INSERT INTO trips (owner_id, name, start_date, end_date, duration_days, travelers, lat, lon, description)
			VALUES (@owner_id, @name, @start_date, @end_date, @duration_days, @travelers, @lat, @lon, @description)
			RETURNING ` + tripColumns

		row := tx.QueryRow(ctx, q, tripArgs(trip))
		t, err := scanTrip(row)
		if err != nil {
			return err
		}

		t.Cities, err = insertCities(ctx, tx, t.ID, trip.Cities)
		if err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	trip, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}

	trip.Cities, err = r.listCities(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: cities: %w", err)
	}
	return trip, nil
}

func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	const countQ = `SELECT count(*) FROM trips WHERE owner_id = @owner_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"owner_id": ownerID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: count: %w", err)
	}

	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE owner_id = @owner_id
		ORDER BY start_date DESC
		LIMIT @limit OFFSET @offset`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"owner_id": ownerID,
		"limit":    p.Limit,
		"offset":   p.Offset(),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}

	return trips, total, nil
}

func (r *pgTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	var result domain.Trip
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		const q = `
			UPDATE trips
			SET name          = @name,
			    start_date    = @start_date,
			    end_date      = @end_date,
			    duration_days = @duration_days,
			    travelers     = @travelers,
			    lat           = @lat,
			    lon           = @lon,
			    description   = @description,
			    updated_at    = now()
			WHERE id = @id
			RETURNING ` + tripColumns

		args := tripArgs(trip)
		args["id"] = trip.ID

		t, err := scanTrip(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}

		// City list is full-replace: the payload is the complete desired state.
		if _, err := tx.Exec(ctx, `DELETE FROM trip_cities WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": trip.ID}); err != nil {
			return err
		}
		t.Cities, err = insertCities(ctx, tx, t.ID, trip.Cities)
		if err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgTripRepo) listCities(ctx context.Context, tripID uuid.UUID) ([]domain.TripCity, error) {
	const q = `
		SELECT id, trip_id, name, country, lat, lon
		FROM trip_cities
		WHERE trip_id = @trip_id
		ORDER BY name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cities []domain.TripCity
	for rows.Next() {
		c, err := scanCity(rows)
		if err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}

// insertCities bulk-inserts a trip's city rows and returns the persisted records.
func insertCities(ctx context.Context, tx pgx.Tx, tripID uuid.UUID, cities []domain.TripCity) ([]domain.TripCity, error) {
	const q = `
		INSERT INTO trip_cities (trip_id, name, country, lat, lon)
		VALUES (@trip_id, @name, @country, @lat, @lon)
		RETURNING id, trip_id, name, country, lat, lon`

	out := make([]domain.TripCity, 0, len(cities))
	for _, c := range cities {
		args := pgx.NamedArgs{
			"trip_id": tripID,
			"name":    c.Name,
			"country": c.Country,
			"lat":     c.Lat,
			"lon":     c.Lon,
		}
		saved, err := scanCity(tx.QueryRow(ctx, q, args))
		if err != nil {
			return nil, err
		}
		out = append(out, saved)
	}
	return out, nil
}

func tripArgs(t domain.Trip) pgx.NamedArgs {
	return pgx.NamedArgs{
		"owner_id":      t.OwnerID,
		"name":          t.Name,
		"start_date":    t.StartDate,
		"end_date":      t.EndDate,
		"duration_days": t.DurationDays,
		"travelers":     t.Travelers,
		"lat":           t.Lat,
		"lon":           t.Lon,
		"description":   t.Description,
	}
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable coordinate conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		id       pgtype.UUID
		owner    pgtype.UUID
		start    pgtype.Date
		end      pgtype.Date
		lat, lon pgtype.Float8
	)

	err := s.Scan(&id, &owner, &t.Name, &start, &end, &t.DurationDays, &t.Travelers,
		&lat, &lon, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OwnerID = uuid.UUID(owner.Bytes)
	t.StartDate = start.Time
	t.EndDate = end.Time
	if lat.Valid {
		v := lat.Float64
		t.Lat = &v
	}
	if lon.Valid {
		v := lon.Float64
		t.Lon = &v
	}

	return t, nil
}

func scanCity(s scanner) (domain.TripCity, error) {
	var (
		c        domain.TripCity
		id, trip pgtype.UUID
		lat, lon pgtype.Float8
	)

	err := s.Scan(&id, &trip, &c.Name, &c.Country, &lat, &lon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripCity{}, domain.ErrNotFound
		}
		return domain.TripCity{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	c.TripID = uuid.UUID(trip.Bytes)
	if lat.Valid {
		v := lat.Float64
		c.Lat = &v
	}
	if lon.Valid {
		v := lon.Float64
		c.Lon = &v
	}
	return c, nil
}
