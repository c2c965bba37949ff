package main

import (
	"context"
	"fmt"
	"os"

	"storefront/internal/config"

	"github.com/jackc/pgx/v5"
)

// Connects with the application's database settings and reports the row
// counts of the storefront tables.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, cfg.Database.ConnectionString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	var dbName string
	if err := conn.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		fmt.Fprintf(os.Stderr, "QueryRow failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Successfully connected to database: %s\n", dbName)

	for _, table := range []string{"products", "orders", "order_items", "documents"} {
		var count int64
		if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			fmt.Printf("  %-12s missing (%v)\n", table, err)
			continue
		}
		fmt.Printf("  %-12s %d rows\n", table, count)
	}
}
