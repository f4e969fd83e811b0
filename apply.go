package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ApplySQLFile executes a generated insert file against Postgres and
// returns the number of rows affected. The upload commands never call this;
// it exists for applying a reviewed file.
func ApplySQLFile(ctx context.Context, databaseURL, filename string) (int64, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", filename, err)
	}

	statement := strings.TrimSpace(string(data))
	if statement == "" {
		return 0, fmt.Errorf("%s is empty", filename)
	}

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return 0, fmt.Errorf("connecting to database: %w", err)
	}
	defer conn.Close(ctx)

	// simple protocol: the file is sent as-is, without preparing
	tag, err := conn.Exec(ctx, statement, pgx.QueryExecModeSimpleProtocol)
	if err != nil {
		return 0, fmt.Errorf("executing %s: %w", filename, err)
	}

	return tag.RowsAffected(), nil
}
