package postgres

import (
	"fmt"
	"strings"
)

// whereBuilder acumula condiciones con placeholders $n numerados en orden.
type whereBuilder struct {
	conds []string
	args  []any
}

// add agrega una condición; cada "?" en cond se reemplaza por el siguiente $n.
func (w *whereBuilder) add(cond string, args ...any) {
	for _, a := range args {
		w.args = append(w.args, a)
		cond = strings.Replace(cond, "?", fmt.Sprintf("$%d", len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *whereBuilder) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next devuelve el placeholder para un argumento adicional (ej. LIMIT).
func (w *whereBuilder) next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

func likePattern(s string) string {
	return "%" + s + "%"
}
