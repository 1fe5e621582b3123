package intake

import (
	"context"
	"strings"

	"booking-workers/internal/models"

	"golang.org/x/sync/errgroup"
)

// EmailStatus is the outcome of a uniqueness check.
type EmailStatus string

const (
	EmailUnique EmailStatus = "unique"
	EmailTaken  EmailStatus = "taken"
	// EmailLookupFailed is treated exactly like EmailTaken.
	EmailLookupFailed EmailStatus = "lookup_failed"
)

// Usable reports whether the email may be used for a new booking request.
func (s EmailStatus) Usable() bool {
	return s == EmailUnique
}

// IdentityLookup lists the identities of one table whose email matches.
// Implementations may match loosely; callers re-check case-insensitively.
type IdentityLookup interface {
	FindByEmail(ctx context.Context, table models.IdentityTable, email string) ([]models.Identity, error)
}

// IdentityLookupFunc adapts a function to IdentityLookup.
type IdentityLookupFunc func(ctx context.Context, table models.IdentityTable, email string) ([]models.Identity, error)

func (f IdentityLookupFunc) FindByEmail(ctx context.Context, table models.IdentityTable, email string) ([]models.Identity, error) {
	return f(ctx, table, email)
}

// NormalizeEmail lowercases and trims. It is idempotent.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckEmailUniqueness queries the contractor and landlord tables concurrently.
// Any lookup error, including ctx expiry, yields EmailLookupFailed along with the error.
func CheckEmailUniqueness(ctx context.Context, email string, lookup IdentityLookup) (EmailStatus, error) {
	normalized := NormalizeEmail(email)
	matches := make([]bool, len(models.IdentityTables))

	g, gctx := errgroup.WithContext(ctx)
	for i, table := range models.IdentityTables {
		i, table := i, table
		g.Go(func() error {
			identities, err := lookup.FindByEmail(gctx, table, normalized)
			if err != nil {
				return err
			}
			if err := gctx.Err(); err != nil {
				return err
			}
			matches[i] = containsEmail(identities, normalized)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return EmailLookupFailed, err
	}

	for _, m := range matches {
		if m {
			return EmailTaken, nil
		}
	}
	return EmailUnique, nil
}

func containsEmail(identities []models.Identity, normalized string) bool {
	for _, id := range identities {
		if NormalizeEmail(id.Email) == normalized {
			return true
		}
	}
	return false
}
