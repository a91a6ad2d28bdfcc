// Initializes the dev record store database: applies migrations and loads
// the sample jobs so the site has data to render.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	dbfs "github.com/workdeck/workdeck/db"
	"github.com/workdeck/workdeck/internal/db"
)

func main() {
	dsn := flag.String("db", "file:devstore.db", "SQLite DSN")
	flag.Parse()

	ctx := context.Background()

	database, err := db.New(ctx, *dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
		fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
		os.Exit(1)
	}
	if err := db.Seed(ctx, database, dbfs.SeedFiles); err != nil {
		fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Dev store initialized.")
}
