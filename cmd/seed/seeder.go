// Package main provides the seed command for populating the database with
// sample content. Seeders run inside one transaction and record outbox events
// so the running service indexes and renders the seeded rows.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

// Seeder populates the rows of one domain.
type Seeder interface {
	Name() string
	Description() string

	// Seed writes its rows inside tx. Implementations must be idempotent.
	Seed(ctx context.Context, tx *sql.Tx) error
}

var seeders = map[string]Seeder{}

func registerSeeder(s Seeder) {
	seeders[s.Name()] = s
}

func getSeeder(name string) (Seeder, bool) {
	s, ok := seeders[name]
	return s, ok
}

// listSeeders returns the registered seeders ordered by name.
func listSeeders() []Seeder {
	result := make([]Seeder, 0, len(seeders))
	for _, s := range seeders {
		result = append(result, s)
	}
	slices.SortFunc(result, func(a, b Seeder) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return result
}

// runSeeders executes the named seeders in one transaction. Any failure rolls
// every seeder back.
func runSeeders(ctx context.Context, db *sql.DB, names ...string) error {
	selected := make([]Seeder, 0, len(names))
	for _, name := range names {
		s, ok := getSeeder(name)
		if !ok {
			return fmt.Errorf("seeder not found: %s", name)
		}
		selected = append(selected, s)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	for _, s := range selected {
		if err := s.Seed(ctx, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
