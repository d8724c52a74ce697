package repository

import (
	"context"

	"github.com/jhoicas/kyogym/internal/domain/entity"
)

// MembershipRepository define el puerto de persistencia para Membership.
// El estado no se guarda: los listados devuelven filas crudas y el caso de uso lo calcula.
type MembershipRepository interface {
	Create(ctx context.Context, m *entity.Membership) error
	GetByID(ctx context.Context, id int64) (*entity.Membership, error)
	// ListForActiveClients lista membresías de clientes activos ordenadas por vencimiento
	// descendente (id descendente como desempate). clientID 0 = todos.
	ListForActiveClients(ctx context.Context, clientID int64) ([]*entity.Membership, error)
	// ListAll devuelve todas las filas ordenadas por id (volcado para exportación).
	ListAll(ctx context.Context) ([]*entity.Membership, error)
	Update(ctx context.Context, m *entity.Membership) error
	Delete(ctx context.Context, id int64) error
}
