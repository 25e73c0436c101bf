// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"fmt"
	"slices"

	"github.com/pdiddy/deis-covid/pkg/types"
)

const defaultLimit = 10

// CountBy groups the records of run runID by column and returns the counts
// in descending order, ties broken by value. limit <= 0 uses 10.
func (s *Store) CountBy(ctx context.Context, runID int64, column string, limit int) ([]types.ValueCount, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT value, count(*) AS n FROM cells
		 WHERE run_id = ? AND column_name = ?
		 GROUP BY value
		 ORDER BY n DESC, value ASC
		 LIMIT ?`,
		runID, column, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("counting by %s: %w", column, err)
	}
	defer rows.Close()

	var out []types.ValueCount
	for rows.Next() {
		var (
			value string
			n     int
		)
		if err := rows.Scan(&value, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		out = append(out, types.ValueCount{Values: []string{value}, Count: n})
	}
	return out, rows.Err()
}

// HasColumn reports whether run recorded column.
func (r Run) HasColumn(column string) bool {
	return slices.Contains(r.Columns, column)
}
