package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// defaultCatalog catálogo de ejemplo para un gimnasio nuevo.
var defaultCatalog = []dto.CreateItemRequest{
	product("Proteína Whey 2lb Vainilla", "Suplementos", 15, "45.00"),
	product("Creatina Monohidratada 300g", "Suplementos", 20, "25.00"),
	product("Pre-Entreno Explosivo 30 servicios", "Suplementos", 10, "35.00"),
	product("BCAA Aminoácidos 200g", "Suplementos", 12, "30.00"),
	product("Multivitamínico Deportivo 90 tabletas", "Suplementos", 18, "20.00"),
	product("Quemador de Grasa Termogénico", "Suplementos", 8, "40.00"),
	product("Mancuernas Ajustables 20kg", "Equipamiento", 5, "120.00"),
	product("Barra Olímpica 20kg", "Equipamiento", 4, "180.00"),
	product("Banco Plano de Pesas", "Equipamiento", 3, "150.00"),
	product("Set de Discos 50kg", "Equipamiento", 6, "200.00"),
	product("Máquina de Poleas (Cable)", "Equipamiento", 2, "900.00"),
	product("Kettlebell 16kg", "Equipamiento", 7, "60.00"),
	product("Guantes de Entrenamiento Antideslizantes", "Accesorios", 25, "15.00"),
	product("Cinturón de Levantamiento de Pesas", "Accesorios", 10, "35.00"),
	product("Banda Elástica de Resistencia", "Accesorios", 30, "10.00"),
	product("Shaker Mezclador 700ml", "Accesorios", 20, "8.00"),
	product("Rodillo de Espuma (Foam Roller)", "Accesorios", 12, "18.00"),
	product("Cuerda para Saltar Profesional", "Accesorios", 15, "12.00"),
	product("Bebida Isotónica Energética 500ml", "Bebidas", 40, "3.00"),
	product("Agua Mineral Premium 1L", "Bebidas", 50, "2.00"),
}

func product(name, category string, qty int, price string) dto.CreateItemRequest {
	return dto.CreateItemRequest{
		Name:      name,
		Category:  category,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString(price),
	}
}

// decodeText devuelve el contenido como UTF-8. Si no es UTF-8 válido se asume ISO-8859-1
// (exportaciones de Excel en Windows).
func decodeText(data []byte) io.Reader {
	if utf8.Valid(data) {
		return bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
	}
	return transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
}

// readCSV lee filas separadas por coma o punto y coma.
func readCSV(data []byte) ([][]string, error) {
	text, err := io.ReadAll(decodeText(data))
	if err != nil {
		return nil, fmt.Errorf("decodificar csv: %w", err)
	}
	cr := csv.NewReader(bytes.NewReader(text))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	first, _, _ := strings.Cut(string(text), "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		cr.Comma = ';'
	}
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	return rows, nil
}

// parseRows convierte filas nombre,categoria,cantidad,precio[,stock_minimo] en solicitudes.
// Una primera fila con cantidad no numérica se trata como encabezado.
func parseRows(rows [][]string) ([]dto.CreateItemRequest, error) {
	out := make([]dto.CreateItemRequest, 0, len(rows))
	for i, row := range rows {
		if len(row) < 4 {
			if strings.TrimSpace(strings.Join(row, "")) == "" {
				continue
			}
			return nil, fmt.Errorf("fila %d: se esperan al menos 4 columnas", i+1)
		}
		qty, err := strconv.Atoi(strings.TrimSpace(row[2]))
		if err != nil {
			if i == 0 {
				continue
			}
			return nil, fmt.Errorf("fila %d: cantidad %q inválida", i+1, row[2])
		}
		price, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(row[3]), ",", "."))
		if err != nil {
			return nil, fmt.Errorf("fila %d: precio %q inválido", i+1, row[3])
		}
		req := dto.CreateItemRequest{
			Name:      strings.TrimSpace(row[0]),
			Category:  strings.TrimSpace(row[1]),
			Quantity:  qty,
			UnitPrice: price,
		}
		if len(row) > 4 && strings.TrimSpace(row[4]) != "" {
			threshold, err := strconv.Atoi(strings.TrimSpace(row[4]))
			if err != nil {
				return nil, fmt.Errorf("fila %d: stock mínimo %q inválido", i+1, row[4])
			}
			req.LowStockThreshold = &threshold
		}
		out = append(out, req)
	}
	return out, nil
}
