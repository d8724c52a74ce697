// Package excel escribe y lee libros .xlsx con excelize.
package excel

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/kyogym/internal/application/export"
)

var _ export.WorkbookWriter = (*WorkbookWriter)(nil)

// WorkbookWriter implementa export.WorkbookWriter.
type WorkbookWriter struct{}

// NewWorkbookWriter construye el escritor.
func NewWorkbookWriter() *WorkbookWriter { return &WorkbookWriter{} }

// Write crea una hoja por cada Sheet (la primera reemplaza a "Sheet1") y devuelve el .xlsx.
func (w *WorkbookWriter) Write(_ context.Context, sheets []export.Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.Name); err != nil {
				return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("excel: crear hoja %s: %w", s.Name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("excel: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s export.Sheet) error {
	header := make([]interface{}, len(s.Header))
	for i, h := range s.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("excel: encabezado de %s: %w", s.Name, err)
	}
	for i, r := range s.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: celda: %w", err)
		}
		values := append([]interface{}(nil), r...)
		if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("excel: fila %d de %s: %w", i+2, s.Name, err)
		}
	}
	return nil
}
