package excel

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadRows devuelve las filas de la hoja activa (o de sheet si no está vacío), incluido el encabezado.
// Las filas totalmente vacías se omiten.
func ReadRows(data []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("excel: archivo inválido: %w", err)
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("excel: leer hoja %s: %w", sheet, err)
	}
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		if strings.TrimSpace(strings.Join(r, "")) == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
