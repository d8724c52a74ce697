package registry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/domain"
	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/membership"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// DefaultExpiringLimit cantidad de membresías por vencer que devuelve ListExpiringSoon por defecto.
const DefaultExpiringLimit = 10

// EnrollmentConcept concepto del pago creado por Enroll.
const EnrollmentConcept = "Pago de membresía"

// MembershipCreatedRecorder recibe un aviso por cada membresía creada (métricas).
type MembershipCreatedRecorder interface {
	MembershipCreated(kind string)
}

// MembershipUseCase casos de uso de membresías.
type MembershipUseCase struct {
	txRunner       TxRunner
	clientRepo     repository.ClientRepository
	membershipRepo repository.MembershipRepository
	thresholds     ThresholdProvider
	recorder       MembershipCreatedRecorder
	now            func() time.Time
}

// NewMembershipUseCase construye el caso de uso. recorder puede ser nil.
func NewMembershipUseCase(
	txRunner TxRunner,
	clientRepo repository.ClientRepository,
	membershipRepo repository.MembershipRepository,
	thresholds ThresholdProvider,
	recorder MembershipCreatedRecorder,
	opts ...Option,
) *MembershipUseCase {
	o := buildOptions(opts)
	return &MembershipUseCase{
		txRunner:       txRunner,
		clientRepo:     clientRepo,
		membershipRepo: membershipRepo,
		thresholds:     thresholds,
		recorder:       recorder,
		now:            o.now,
	}
}

func (uc *MembershipUseCase) today() time.Time {
	return membership.DateOf(uc.now())
}

func (uc *MembershipUseCase) recordCreated(kind string) {
	if uc.recorder != nil {
		uc.recorder.MembershipCreated(kind)
	}
}

// requireClient verifica que el cliente exista; si no, es un error de entrada.
func requireClient(ctx context.Context, repo repository.ClientRepository, clientID int64) (*entity.Client, error) {
	if clientID <= 0 {
		return nil, fmt.Errorf("%w: client_id es requerido", domain.ErrInvalidInput)
	}
	c, err := repo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: el cliente %d no existe", domain.ErrInvalidInput, clientID)
	}
	return c, nil
}

// currentMembership devuelve la membresía Activa o Por Vencer con vencimiento más lejano
// (desempate por id mayor), o nil si el cliente no tiene ninguna.
func currentMembership(ctx context.Context, repo repository.MembershipRepository, clientID int64, today time.Time, alertDays int) (*entity.Membership, error) {
	list, err := repo.ListForActiveClients(ctx, clientID)
	if err != nil {
		return nil, err
	}
	// La lista ya viene por vencimiento descendente: la primera vigente gana.
	for _, m := range list {
		if membership.Compute(m.ExpirationDate, today, alertDays).IsCurrent() {
			return m, nil
		}
	}
	return nil, nil
}

// resolveDate interpreta la fecha del request; vacía devuelve def.
func resolveDate(raw string, def time.Time) (time.Time, error) {
	d, err := dto.ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	if d == nil {
		return def, nil
	}
	return membership.DateOf(*d), nil
}

// Create registra una membresía. El vencimiento se deriva siempre del inicio (+30 días).
func (uc *MembershipUseCase) Create(ctx context.Context, in dto.CreateMembershipRequest) (*dto.MembershipResponse, error) {
	today := uc.today()
	start, err := resolveDate(in.StartDate, today)
	if err != nil {
		return nil, err
	}
	kind := strings.TrimSpace(in.Type)
	if kind == "" {
		kind = entity.MembershipTypeMonthly
	}
	m := &entity.Membership{
		ClientID:       in.ClientID,
		Type:           kind,
		StartDate:      start,
		ExpirationDate: membership.ExpirationFor(start),
		Amount:         entity.RoundMoney(dto.NewLenientAmount(in.Amount.Decimal).Decimal),
		PaymentID:      in.PaymentID,
	}
	err = uc.txRunner.RunRegistry(ctx, func(
		clientRepo repository.ClientRepository,
		membershipRepo repository.MembershipRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		client, err := requireClient(ctx, clientRepo, m.ClientID)
		if err != nil {
			return err
		}
		if m.PaymentID != nil {
			if err := requirePaymentOf(ctx, paymentRepo, *m.PaymentID, client.ID); err != nil {
				return err
			}
		}
		if err := membershipRepo.Create(ctx, m); err != nil {
			return err
		}
		m.ClientName, m.ClientPhone = client.Name, client.Phone
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recordCreated(m.Type)
	return toMembershipResponse(m, today, uc.thresholds.AlertDays()), nil
}

// Renew crea una membresía "Mensual" que empieza hoy.
func (uc *MembershipUseCase) Renew(ctx context.Context, in dto.RenewRequest) (*dto.MembershipResponse, error) {
	return uc.Create(ctx, dto.CreateMembershipRequest{
		ClientID: in.ClientID,
		Type:     entity.MembershipTypeMonthly,
		Amount:   in.Amount,
	})
}

// Enroll registra el pago y la membresía del cliente en una sola transacción.
// Falla con ActiveMembershipError si el cliente ya tiene una membresía vigente.
func (uc *MembershipUseCase) Enroll(ctx context.Context, in dto.EnrollRequest) (*dto.EnrollResponse, error) {
	today := uc.today()
	start, err := resolveDate(in.StartDate, today)
	if err != nil {
		return nil, err
	}
	in.Amount = entity.RoundMoney(in.Amount)
	if !in.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: método de pago %q no reconocido", domain.ErrInvalidInput, method)
	}
	alertDays := uc.thresholds.AlertDays()

	var (
		m *entity.Membership
		p *entity.Payment
	)
	err = uc.txRunner.RunRegistry(ctx, func(
		clientRepo repository.ClientRepository,
		membershipRepo repository.MembershipRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		client, err := requireClient(ctx, clientRepo, in.ClientID)
		if err != nil {
			return err
		}
		current, err := currentMembership(ctx, membershipRepo, client.ID, today, alertDays)
		if err != nil {
			return err
		}
		if current != nil {
			return &domain.ActiveMembershipError{
				ClientID:       client.ID,
				MembershipID:   current.ID,
				Status:         string(membership.Compute(current.ExpirationDate, today, alertDays)),
				ExpirationDate: current.ExpirationDate,
			}
		}
		p = &entity.Payment{
			ClientID: client.ID,
			Date:     start,
			Amount:   in.Amount,
			Method:   method,
			Concept:  EnrollmentConcept,
		}
		if err := paymentRepo.Create(ctx, p); err != nil {
			return err
		}
		m = &entity.Membership{
			ClientID:       client.ID,
			Type:           entity.MembershipTypeMonthly,
			StartDate:      start,
			ExpirationDate: membership.ExpirationFor(start),
			Amount:         in.Amount,
			PaymentID:      &p.ID,
		}
		if err := membershipRepo.Create(ctx, m); err != nil {
			return err
		}
		p.MembershipID = &m.ID
		if err := paymentRepo.Update(ctx, p); err != nil {
			return err
		}
		m.ClientName, m.ClientPhone = client.Name, client.Phone
		p.ClientName, p.ClientPhone = client.Name, client.Phone
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.recordCreated(m.Type)
	return &dto.EnrollResponse{
		Membership: *toMembershipResponse(m, today, alertDays),
		Payment:    *toPaymentResponse(p),
	}, nil
}

// Get obtiene una membresía por ID con su estado actual.
func (uc *MembershipUseCase) Get(ctx context.Context, id int64) (*dto.MembershipResponse, error) {
	m, err := uc.membershipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMembershipResponse(m, uc.today(), uc.thresholds.AlertDays()), nil
}

// List lista membresías de clientes activos (vencimiento descendente).
// clientID 0 = todas; status vacío = sin filtro.
func (uc *MembershipUseCase) List(ctx context.Context, clientID int64, status string) ([]*dto.MembershipResponse, error) {
	var want membership.Status
	if strings.TrimSpace(status) != "" {
		s, ok := membership.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: estado %q no reconocido", domain.ErrInvalidInput, status)
		}
		want = s
	}
	list, err := uc.membershipRepo.ListForActiveClients(ctx, clientID)
	if err != nil {
		return nil, err
	}
	today, alertDays := uc.today(), uc.thresholds.AlertDays()
	out := make([]*dto.MembershipResponse, 0, len(list))
	for _, m := range list {
		r := toMembershipResponse(m, today, alertDays)
		if want != "" && r.Status != string(want) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// ListExpiringSoon membresías "Por Vencer" ordenadas por vencimiento ascendente, truncadas a limit.
func (uc *MembershipUseCase) ListExpiringSoon(ctx context.Context, limit int) ([]*dto.MembershipResponse, error) {
	if limit <= 0 {
		limit = DefaultExpiringLimit
	}
	list, err := uc.List(ctx, 0, string(membership.StatusExpiring))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].ExpirationDate < list[j].ExpirationDate
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

// CurrentForClient devuelve la membresía vigente del cliente, o nil si no tiene.
func (uc *MembershipUseCase) CurrentForClient(ctx context.Context, clientID int64) (*dto.MembershipResponse, error) {
	today, alertDays := uc.today(), uc.thresholds.AlertDays()
	m, err := currentMembership(ctx, uc.membershipRepo, clientID, today, alertDays)
	if err != nil || m == nil {
		return nil, err
	}
	return toMembershipResponse(m, today, alertDays), nil
}

// CountByStatus cuenta las membresías de clientes activos por estado.
// Las tres claves siempre están presentes.
func (uc *MembershipUseCase) CountByStatus(ctx context.Context) (*dto.StatusCountResponse, error) {
	list, err := uc.membershipRepo.ListForActiveClients(ctx, 0)
	if err != nil {
		return nil, err
	}
	today, alertDays := uc.today(), uc.thresholds.AlertDays()
	out := &dto.StatusCountResponse{}
	for _, m := range list {
		switch membership.Compute(m.ExpirationDate, today, alertDays) {
		case membership.StatusActive:
			out.Active++
		case membership.StatusExpiring:
			out.Expiring++
		default:
			out.Expired++
		}
	}
	return out, nil
}

// Update modifica cliente, tipo, inicio y monto. El vencimiento se recalcula desde el inicio.
// Si el request no trae fecha de inicio se conserva la actual.
func (uc *MembershipUseCase) Update(ctx context.Context, id int64, in dto.CreateMembershipRequest) (*dto.MembershipResponse, error) {
	var updated *entity.Membership
	err := uc.txRunner.RunRegistry(ctx, func(
		clientRepo repository.ClientRepository,
		membershipRepo repository.MembershipRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		m, err := membershipRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrNotFound
		}
		start, err := resolveDate(in.StartDate, m.StartDate)
		if err != nil {
			return err
		}
		client, err := requireClient(ctx, clientRepo, in.ClientID)
		if err != nil {
			return err
		}
		switch {
		case in.PaymentID != nil:
			if err := requirePaymentOf(ctx, paymentRepo, *in.PaymentID, client.ID); err != nil {
				return err
			}
			m.PaymentID = in.PaymentID
		case client.ID != m.ClientID:
			// El pago anterior es de otro cliente.
			m.PaymentID = nil
		}
		if kind := strings.TrimSpace(in.Type); kind != "" {
			m.Type = kind
		}
		m.ClientID = client.ID
		m.StartDate = start
		m.ExpirationDate = membership.ExpirationFor(start)
		m.Amount = entity.RoundMoney(dto.NewLenientAmount(in.Amount.Decimal).Decimal)
		if err := membershipRepo.Update(ctx, m); err != nil {
			return err
		}
		m.ClientName, m.ClientPhone = client.Name, client.Phone
		updated = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMembershipResponse(updated, uc.today(), uc.thresholds.AlertDays()), nil
}

// Delete elimina la membresía. Los pagos que la referencian quedan sin membresía.
func (uc *MembershipUseCase) Delete(ctx context.Context, id int64) error {
	m, err := uc.membershipRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return domain.ErrNotFound
	}
	return uc.membershipRepo.Delete(ctx, id)
}
