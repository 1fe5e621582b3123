// Package identity answers which contractor or landlord accounts hold an email.
package identity

import (
	"context"
	"database/sql"
	"fmt"

	apperrors "booking-workers/internal/common/errors"
	"booking-workers/internal/common/metrics"
	"booking-workers/internal/intake"
	"booking-workers/internal/models"
)

// queries is keyed by table so no identifier is ever interpolated from input.
var queries = map[models.IdentityTable]string{
	models.ContractorIdentities: `SELECT id, email FROM contractors WHERE LOWER(email) = $1`,
	models.LandlordIdentities:   `SELECT id, email FROM landlords WHERE LOWER(email) = $1`,
}

// PostgresLookup reads identities straight from the account tables.
type PostgresLookup struct {
	db *sql.DB
}

func NewPostgresLookup(db *sql.DB) *PostgresLookup {
	return &PostgresLookup{db: db}
}

var _ intake.IdentityLookup = (*PostgresLookup)(nil)

// FindByEmail lists the rows of table holding email. Driver failures come back
// as IDENTITY_LOOKUP_FAILED errors.
func (l *PostgresLookup) FindByEmail(ctx context.Context, table models.IdentityTable, email string) ([]models.Identity, error) {
	query, ok := queries[table]
	if !ok {
		return nil, fmt.Errorf("unknown identity table %q", table)
	}

	rows, err := l.db.QueryContext(ctx, query, intake.NormalizeEmail(email))
	if err != nil {
		metrics.IdentityLookups.WithLabelValues(string(table), "error").Inc()
		return nil, apperrors.NewIdentityLookupFailedError(string(table), err)
	}
	defer rows.Close()

	var out []models.Identity
	for rows.Next() {
		id := models.Identity{Table: table}
		if err := rows.Scan(&id.ID, &id.Email); err != nil {
			metrics.IdentityLookups.WithLabelValues(string(table), "error").Inc()
			return nil, apperrors.NewIdentityLookupFailedError(string(table), err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		metrics.IdentityLookups.WithLabelValues(string(table), "error").Inc()
		return nil, apperrors.NewIdentityLookupFailedError(string(table), err)
	}

	result := "miss"
	if len(out) > 0 {
		result = "hit"
	}
	metrics.IdentityLookups.WithLabelValues(string(table), result).Inc()
	return out, nil
}
