package main

import (
	"context"
	"flag"
	"log"

	"traqcheck/internal/config"
	"traqcheck/internal/dbx"
	"traqcheck/internal/storage"
)

// Bootstraps the database schema against either backend. Safe to run
// repeatedly; every statement is CREATE ... IF NOT EXISTS.
func main() {
	var check bool
	flag.BoolVar(&check, "check", false, "If true, verify the schema by listing row counts instead of creating tables")
	flag.Parse()

	cfg := config.Load()

	db, err := dbx.Open(dbx.Config{
		SQLitePath:      cfg.SQLitePath,
		RemoteURL:       cfg.TursoDatabaseURL,
		RemoteAuthToken: cfg.TursoAuthToken,
	})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	ctx := context.Background()

	if check {
		verify(ctx, db)
		return
	}

	if err := storage.InitSchema(ctx, db); err != nil {
		log.Fatalf("schema init: %v", err)
	}
	log.Printf("Schema initialized (%s backend)", db.Kind())
}

func verify(ctx context.Context, db *dbx.DB) {
	conn, err := db.Conn(ctx)
	if err != nil {
		log.Fatalf("db conn: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"candidates", "documents", "agent_logs"} {
		rs, err := conn.Execute(ctx, "SELECT count(id) AS n FROM "+table)
		if err != nil {
			log.Fatalf("%s: %v", table, err)
		}
		row, ok, err := rs.FetchOne()
		if err != nil || !ok {
			log.Fatalf("%s: no count row (err=%v)", table, err)
		}
		log.Printf("%-12s %d rows", table, row.Int("n"))
		rs.Close()
	}
}
