package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

// TestDatabaseSetup holds a connection to the integration test database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the schema.
// ok is false when the variable is unset.
func NewTestDatabase(ctx context.Context) (setup *TestDatabaseSetup, ok bool, err error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, false, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{})
	if err != nil {
		return nil, true, fmt.Errorf("failed to connect to test database: %w", err)
	}

	schema, err := os.ReadFile(filepath.Join("..", "..", "..", "..", "migrations", "000001_init.up.sql"))
	if err != nil {
		db.Close()
		return nil, true, fmt.Errorf("failed to read schema: %w", err)
	}
	if _, err := db.Exec(ctx, string(schema)); err != nil {
		db.Close()
		return nil, true, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, true, nil
}

// TruncateAllTables removes all rows from the application tables.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"attendance_days",
		"department_rates",
		"departments",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// CreateEmployee inserts an employee and returns its id.
func (t *TestDatabaseSetup) CreateEmployee(ctx context.Context, name string, organizationID *string) (string, error) {
	id := uuid.NewString()
	_, err := t.DB.Exec(ctx, `
		INSERT INTO employees (id, full_name, organization_id) VALUES ($1, $2, $3)
	`, id, name, organizationID)
	return id, err
}

// CreateDepartment inserts a department and returns its id.
func (t *TestDatabaseSetup) CreateDepartment(ctx context.Context, name string) (string, error) {
	id := uuid.NewString()
	_, err := t.DB.Exec(ctx, `INSERT INTO departments (id, name) VALUES ($1, $2)`, id, name)
	return id, err
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
