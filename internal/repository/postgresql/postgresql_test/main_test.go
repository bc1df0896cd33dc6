package postgresql_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupDB returns a clean database or skips the test when none is configured.
func setupDB(t *testing.T) *TestDatabaseSetup {
	t.Helper()
	ctx := context.Background()

	setup, ok, err := NewTestDatabase(ctx)
	if !ok {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, err)
	t.Cleanup(setup.Close)

	require.NoError(t, setup.TruncateAllTables(ctx))
	return setup
}
