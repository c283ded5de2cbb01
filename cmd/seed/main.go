package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const EnvDatabaseDSN = "DATABASE_DSN"

func main() {
	var (
		dsn     = flag.String("dsn", "", "Database connection string")
		all     = flag.Bool("all", false, "Run all seeders")
		content = flag.Bool("content", false, "Seed articles and tasks")
		file    = flag.String("file", "", "External YAML seed file (overrides embedded)")
		list    = flag.Bool("list", false, "List available seeders")
	)
	flag.Parse()

	if *list {
		fmt.Println("Available seeders:")
		for _, s := range listSeeders() {
			fmt.Printf("  - %s: %s\n", s.Name(), s.Description())
		}
		return
	}

	if *dsn == "" {
		*dsn = os.Getenv(EnvDatabaseDSN)
	}
	if *dsn == "" {
		log.Fatalf("database connection string required: use -dsn flag or %s env var", EnvDatabaseDSN)
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if *file != "" {
		if s, ok := getSeeder("content"); ok {
			s.(*ContentSeeder).SetFile(*file)
		}
	}

	ctx := context.Background()

	switch {
	case *all:
		names := make([]string, 0, len(seeders))
		for _, s := range listSeeders() {
			names = append(names, s.Name())
		}
		if err := runSeeders(ctx, db, names...); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("all seeders completed successfully")

	case *content:
		if err := runSeeders(ctx, db, "content"); err != nil {
			log.Fatalf("seeding failed: %v", err)
		}
		fmt.Println("content seeded successfully")

	default:
		fmt.Println("usage: seed -dsn <connection-string> [-all|-content] [-file <path>] [-list]")
		flag.PrintDefaults()
	}
}
