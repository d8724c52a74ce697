package repository

import (
	"context"

	"github.com/jhoicas/kyogym/internal/domain/entity"
)

// ClientFilter filtros para listar clientes.
type ClientFilter struct {
	Search     string // coincide con nombre o teléfono (sin distinguir mayúsculas)
	OnlyActive bool
}

// ClientRepository define el puerto de persistencia para Client.
// GetByID y FindActiveByPhone devuelven (nil, nil) si no hay fila.
type ClientRepository interface {
	Create(ctx context.Context, client *entity.Client) error
	GetByID(ctx context.Context, id int64) (*entity.Client, error)
	// FindActiveByPhone busca un cliente activo con ese teléfono, excluyendo excludeID (0 = ninguno).
	FindActiveByPhone(ctx context.Context, phone string, excludeID int64) (*entity.Client, error)
	List(ctx context.Context, f ClientFilter) ([]*entity.Client, error)
	Update(ctx context.Context, client *entity.Client) error
	SetActive(ctx context.Context, id int64, active bool) error
	CountActiveBySex(ctx context.Context) (map[string]int, error)
}
