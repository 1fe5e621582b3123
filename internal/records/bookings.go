// Package records loads the dashboard rows that the filter engine narrows down.
package records

import (
	"context"
	"database/sql"
	"errors"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/models"
)

const clientBookingsQuery = `SELECT b.id, b.client_id, p.name, p.address, b.start_date, b.end_date, b.status, b.team_size
FROM bookings b
JOIN properties p ON p.id = b.property_id
WHERE b.client_id = $1
ORDER BY b.start_date, b.id
LIMIT $2`

// BookingStore reads client bookings from PostgreSQL.
type BookingStore struct {
	db      *sql.DB
	maxRows int
}

func NewBookingStore(db *sql.DB, maxRows int) *BookingStore {
	return &BookingStore{db: db, maxRows: maxRows}
}

// ClientBookings returns the client's bookings ordered by start date.
func (s *BookingStore) ClientBookings(ctx context.Context, clientID string) ([]models.Booking, error) {
	rows, err := s.db.QueryContext(ctx, clientBookingsQuery, clientID, s.maxRows)
	if err != nil {
		return nil, queryError(ctx, err)
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		var (
			b        models.Booking
			teamSize sql.NullInt64
			status   sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.ClientID, &b.PropertyTitle, &b.Address,
			&b.StartDate, &b.EndDate, &status, &teamSize); err != nil {
			return nil, apperrors.NewQueryExecutionFailedError("client_bookings", err)
		}
		b.Status = status.String
		b.TeamSize = int(teamSize.Int64)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, queryError(ctx, err)
	}
	return bookings, nil
}

func queryError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewQueryTimeoutError("client_bookings")
	}
	if errors.Is(err, sql.ErrConnDone) {
		return apperrors.NewDatabaseConnectionFailedError(err)
	}
	return apperrors.NewQueryExecutionFailedError("client_bookings", err)
}
