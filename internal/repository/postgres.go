package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/warden/internal/models"
)

const selectColumns = "id, name, city, state, latitude, longitude, is_active, created_at"

// buildPredicate renders the stored-field predicate as a SQL WHERE fragment
// with positional arguments. Active-only is always part of the predicate.
func buildPredicate(flt Filter) (string, []any) {
	clauses := []string{"is_active = true"}
	args := []any{}

	if text := strings.TrimSpace(flt.SearchText); text != "" {
		args = append(args, "%"+text+"%")
		pos := len(args)
		clauses = append(clauses,
			fmt.Sprintf("(name ILIKE $%d OR city ILIKE $%d OR state ILIKE $%d)", pos, pos, pos))
	}

	if flt.RequireCoords {
		clauses = append(clauses, "latitude IS NOT NULL AND longitude IS NOT NULL")
	}

	return strings.Join(clauses, " AND "), args
}

// FindPage retrieves one page of properties matching the stored-field predicate,
// ordered newest-created first.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - flt: The stored-field predicate to apply.
// - limit: The maximum number of properties to retrieve.
// - offset: The number of matching properties to skip.
//
// Returns:
// - A slice of models.Property containing the properties that match the predicate.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) FindPage(ctx context.Context, flt Filter, limit, offset int) ([]models.Property, error) {
	where, args := buildPredicate(flt)
	args = append(args, limit, offset)
	query := fmt.Sprintf(
		"SELECT %s FROM properties WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		selectColumns, where, len(args)-1, len(args),
	)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties page: %w", err)
	}
	defer rows.Close()

	var properties []models.Property
	for rows.Next() {
		var prop models.Property
		if errScan := rows.Scan(
			&prop.ID, &prop.Name, &prop.City, &prop.State,
			&prop.Latitude, &prop.Longitude, &prop.IsActive, &prop.CreatedAt,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", errScan)
		}
		properties = append(properties, prop)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	r.log.DebugContext(ctx, "Fetched property page", "count", len(properties), "offset", offset)

	return properties, nil
}

// Count returns the exact number of properties matching the stored-field
// predicate, ignoring any weather criteria.
func (r *Repository) Count(ctx context.Context, flt Filter) (int64, error) {
	where, args := buildPredicate(flt)
	query := fmt.Sprintf("SELECT COUNT(*) FROM properties WHERE %s", where)

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count properties: %w", err)
	}

	return total, nil
}
