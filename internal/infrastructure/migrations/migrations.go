// Package migrations aplica el esquema con goose. Cada dialecto tiene su propio juego de
// archivos embebidos en el binario.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var files embed.FS

// Dialectos soportados.
const (
	DialectSQLite   = "sqlite3"
	DialectPostgres = "postgres"
)

// Up aplica las migraciones pendientes del dialecto sobre db.
func Up(db *sql.DB, dialect string) error {
	dir, err := dirFor(dialect)
	if err != nil {
		return err
	}
	goose.SetBaseFS(files)
	defer goose.SetBaseFS(nil)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migrations: dialecto: %w", err)
	}
	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migrations: up: %w", err)
	}
	return nil
}

// Silence desactiva la salida de goose (pruebas).
func Silence() {
	goose.SetLogger(goose.NopLogger())
}

func dirFor(dialect string) (string, error) {
	switch dialect {
	case DialectSQLite:
		return "sqlite", nil
	case DialectPostgres:
		return "postgres", nil
	}
	return "", fmt.Errorf("migrations: dialecto %q no soportado", dialect)
}
