package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/domain"
	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/membership"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// ClientUseCase casos de uso para clientes del gimnasio.
type ClientUseCase struct {
	txRunner TxRunner
	repo     repository.ClientRepository
	now      func() time.Time
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(txRunner TxRunner, repo repository.ClientRepository, opts ...Option) *ClientUseCase {
	o := buildOptions(opts)
	return &ClientUseCase{txRunner: txRunner, repo: repo, now: o.now}
}

// clientFields valida y normaliza los campos editables.
type clientFields struct {
	name      string
	phone     string
	sex       string
	birthDate *time.Time
}

func parseClientRequest(in dto.CreateClientRequest) (clientFields, error) {
	f := clientFields{
		name:  strings.TrimSpace(in.Name),
		phone: strings.TrimSpace(in.Phone),
		sex:   strings.TrimSpace(in.Sex),
	}
	if f.name == "" {
		return f, fmt.Errorf("%w: el nombre es requerido", domain.ErrInvalidInput)
	}
	if !entity.ValidSex(f.sex) {
		return f, fmt.Errorf("%w: sexo %q no reconocido", domain.ErrInvalidInput, f.sex)
	}
	birth, err := dto.ParseDate(in.BirthDate)
	if err != nil {
		return f, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	f.birthDate = birth
	return f, nil
}

// ensurePhoneFree devuelve PhoneConflictError si otro cliente activo ya usa el teléfono.
func ensurePhoneFree(ctx context.Context, repo repository.ClientRepository, phone string, excludeID int64) error {
	if phone == "" {
		return nil
	}
	existing, err := repo.FindActiveByPhone(ctx, phone, excludeID)
	if err != nil {
		return err
	}
	if existing != nil {
		return &domain.PhoneConflictError{Phone: phone, ClientID: existing.ID, ClientName: existing.Name}
	}
	return nil
}

// CheckPhone indica si el teléfono está libre. excludeID permite ignorar al propio cliente al editar.
func (uc *ClientUseCase) CheckPhone(ctx context.Context, phone string, excludeID int64) (*dto.PhoneCheckResponse, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return &dto.PhoneCheckResponse{Available: true}, nil
	}
	existing, err := uc.repo.FindActiveByPhone(ctx, phone, excludeID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return &dto.PhoneCheckResponse{Available: true}, nil
	}
	return &dto.PhoneCheckResponse{Available: false, Client: toClientResponse(existing)}, nil
}

// Create registra un cliente nuevo (activo, con fecha de registro de hoy).
// La verificación del teléfono y el insert corren en la misma transacción.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	f, err := parseClientRequest(in)
	if err != nil {
		return nil, err
	}
	client := &entity.Client{
		Name:             f.name,
		Phone:            f.phone,
		Sex:              f.sex,
		BirthDate:        f.birthDate,
		RegistrationDate: membership.DateOf(uc.now()),
		Active:           true,
	}
	err = uc.txRunner.RunRegistry(ctx, func(
		clientRepo repository.ClientRepository,
		_ repository.MembershipRepository,
		_ repository.PaymentRepository,
	) error {
		if err := ensurePhoneFree(ctx, clientRepo, client.Phone, 0); err != nil {
			return err
		}
		return clientRepo.Create(ctx, client)
	})
	if err != nil {
		return nil, err
	}
	return toClientResponse(client), nil
}

// Get obtiene un cliente por ID (activo o no).
func (uc *ClientUseCase) Get(ctx context.Context, id int64) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toClientResponse(c), nil
}

// List lista clientes ordenados por nombre. search filtra por nombre o teléfono.
func (uc *ClientUseCase) List(ctx context.Context, search string, includeInactive bool) ([]*dto.ClientResponse, error) {
	list, err := uc.repo.List(ctx, repository.ClientFilter{
		Search:     strings.TrimSpace(search),
		OnlyActive: !includeInactive,
	})
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClientResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toClientResponse(c))
	}
	return out, nil
}

// Update modifica nombre, teléfono, sexo y fecha de nacimiento.
func (uc *ClientUseCase) Update(ctx context.Context, id int64, in dto.CreateClientRequest) (*dto.ClientResponse, error) {
	f, err := parseClientRequest(in)
	if err != nil {
		return nil, err
	}
	var updated *entity.Client
	err = uc.txRunner.RunRegistry(ctx, func(
		clientRepo repository.ClientRepository,
		_ repository.MembershipRepository,
		_ repository.PaymentRepository,
	) error {
		c, err := clientRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.ErrNotFound
		}
		if err := ensurePhoneFree(ctx, clientRepo, f.phone, id); err != nil {
			return err
		}
		c.Name, c.Phone, c.Sex, c.BirthDate = f.name, f.phone, f.sex, f.birthDate
		if err := clientRepo.Update(ctx, c); err != nil {
			return err
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toClientResponse(updated), nil
}

// Deactivate realiza el borrado lógico: el cliente deja de listarse pero sus
// membresías y pagos se conservan.
func (uc *ClientUseCase) Deactivate(ctx context.Context, id int64) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(ctx, id, false)
}

// CountBySex cuenta clientes activos por sexo. Siempre incluye las tres claves.
func (uc *ClientUseCase) CountBySex(ctx context.Context) (map[string]int, error) {
	counts, err := uc.repo.CountActiveBySex(ctx)
	if err != nil {
		return nil, err
	}
	out := map[string]int{entity.SexMale: 0, entity.SexFemale: 0, entity.SexOther: 0}
	for sex, n := range counts {
		if _, ok := out[sex]; ok {
			out[sex] = n
		}
	}
	return out, nil
}
