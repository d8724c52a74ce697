// Package sqlitetest abre bases SQLite temporales ya migradas para las pruebas.
package sqlitetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/jhoicas/kyogym/internal/infrastructure/migrations"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/require"
)

// New crea una base en t.TempDir() con todas las migraciones aplicadas.
// Se cierra automáticamente al terminar la prueba.
func New(t testing.TB) *sql.DB {
	t.Helper()
	migrations.Silence()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "gimnasio.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.Up(db, migrations.DialectSQLite))
	return db
}
