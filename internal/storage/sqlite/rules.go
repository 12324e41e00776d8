package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/saldo/internal/categorize"
	"github.com/MrJamesThe3rd/saldo/internal/transaction"
)

// FindMatch matches case-insensitively for ASCII text, which is what SQLite's
// LIKE supports without an extension.
func (s *Store) FindMatch(ctx context.Context, ownerID, description string) (categorize.Rule, bool, error) {
	query := `
		SELECT pattern, category, description
		FROM category_rules
		WHERE owner_id = ? AND ? LIKE '%' || pattern || '%'
		ORDER BY length(pattern) DESC, id DESC
		LIMIT 1
	`

	var (
		r   categorize.Rule
		cat string
	)

	err := s.db.QueryRowContext(ctx, query, ownerID, description).Scan(&r.Pattern, &cat, &r.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return categorize.Rule{}, false, nil
		}

		return categorize.Rule{}, false, fmt.Errorf("finding rule: %w", err)
	}

	r.Category = transaction.Category(cat)

	return r, true, nil
}

func (s *Store) CreateRule(ctx context.Context, ownerID string, r categorize.Rule) error {
	query := `INSERT INTO category_rules (owner_id, pattern, category, description) VALUES (?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, query, ownerID, r.Pattern, string(r.Category), r.Description); err != nil {
		return fmt.Errorf("creating rule: %w", err)
	}

	return nil
}
