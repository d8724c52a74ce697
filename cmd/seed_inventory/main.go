// seed_inventory carga un catálogo de productos en el inventario.
//
// Uso: go run ./cmd/seed_inventory [-file catalogo.csv|catalogo.xlsx] [-sheet Hoja1]
// Sin -file carga el catálogo de ejemplo. Columnas: nombre, categoria, cantidad, precio
// y opcionalmente stock_minimo. Cada producto pasa por el caso de uso del inventario.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/infrastructure/excel"
	"github.com/jhoicas/kyogym/internal/infrastructure/migrations"
	"github.com/jhoicas/kyogym/internal/infrastructure/storage"
	"github.com/jhoicas/kyogym/pkg/config"
	"github.com/jhoicas/kyogym/pkg/logger"
)

func main() {
	file := flag.String("file", "", "catálogo CSV o XLSX (vacío = catálogo de ejemplo)")
	sheet := flag.String("sheet", "", "hoja del XLSX (vacío = hoja activa)")
	flag.Parse()
	os.Exit(run(*file, *sheet))
}

// run devuelve el código de salida; los defer se ejecutan antes de os.Exit.
func run(file, sheet string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		return 1
	}
	log, err := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Iniciar logger: %v\n", err)
		return 1
	}
	defer log.Close()

	catalog, err := loadCatalog(file, sheet)
	if err != nil {
		log.Error().Err(err).Str("file", file).Msg("leer catálogo")
		return 1
	}

	migrations.Silence()
	ctx := context.Background()
	st, err := storage.Open(ctx, cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("abrir base de datos")
		return 1
	}
	defer st.Close()

	uc := inventory.NewLedgerUseCase(st.Tx, st.Items, st.Movements)
	res, err := seed(ctx, uc, catalog)
	if err != nil {
		log.Error().Err(err).Msg("listar inventario existente")
		return 1
	}
	for _, f := range res.failed {
		log.Warn().Err(f.err).Str("name", f.name).Msg("producto omitido")
	}
	log.Info().
		Int("inserted", res.inserted).
		Int("existing", res.existing).
		Int("failed", len(res.failed)).
		Int("total", len(catalog)).
		Msg("catálogo cargado")
	return 0
}

type seedFailure struct {
	name string
	err  error
}

type seedResult struct {
	inserted int
	existing int
	failed   []seedFailure
}

// seed inserta los productos cuyo nombre (sin distinguir mayúsculas) aún no existe,
// de modo que volver a correr el comando no duplica el catálogo.
func seed(ctx context.Context, uc *inventory.LedgerUseCase, catalog []dto.CreateItemRequest) (seedResult, error) {
	var res seedResult
	current, err := uc.ListItems(ctx, "", "")
	if err != nil {
		return res, err
	}
	seen := make(map[string]struct{}, len(current)+len(catalog))
	for _, it := range current {
		seen[nameKey(it.Name)] = struct{}{}
	}
	for _, in := range catalog {
		key := nameKey(in.Name)
		if _, ok := seen[key]; ok {
			res.existing++
			continue
		}
		if _, err := uc.CreateItem(ctx, in); err != nil {
			res.failed = append(res.failed, seedFailure{name: in.Name, err: err})
			continue
		}
		seen[key] = struct{}{}
		res.inserted++
	}
	return res, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func loadCatalog(path, sheet string) ([]dto.CreateItemRequest, error) {
	if path == "" {
		return defaultCatalog, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		rows, err = excel.ReadRows(data, sheet)
	default:
		rows, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	return parseRows(rows)
}
