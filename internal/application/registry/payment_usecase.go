package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/domain"
	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/membership"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// Límites por defecto de los listados de pagos.
const (
	DefaultPaymentLimit = 100
	DefaultLatestLimit  = 5
)

// PaymentUseCase casos de uso de pagos.
type PaymentUseCase struct {
	txRunner       TxRunner
	clientRepo     repository.ClientRepository
	membershipRepo repository.MembershipRepository
	paymentRepo    repository.PaymentRepository
	thresholds     ThresholdProvider
	now            func() time.Time
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner TxRunner,
	clientRepo repository.ClientRepository,
	membershipRepo repository.MembershipRepository,
	paymentRepo repository.PaymentRepository,
	thresholds ThresholdProvider,
	opts ...Option,
) *PaymentUseCase {
	o := buildOptions(opts)
	return &PaymentUseCase{
		txRunner:       txRunner,
		clientRepo:     clientRepo,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
		thresholds:     thresholds,
		now:            o.now,
	}
}

func (uc *PaymentUseCase) today() time.Time {
	return membership.DateOf(uc.now())
}

// validatePayment normaliza método y monto. Un pago siempre tiene monto positivo.
// validatePayment espera el monto ya redondeado a centavos.
func validatePayment(in dto.CreatePaymentRequest) (string, error) {
	if !in.Amount.IsPositive() {
		return "", fmt.Errorf("%w: el monto debe ser mayor a cero", domain.ErrInvalidInput)
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = entity.PaymentMethodCash
	}
	if !entity.ValidPaymentMethod(method) {
		return "", fmt.Errorf("%w: método de pago %q no reconocido", domain.ErrInvalidInput, method)
	}
	return method, nil
}

// requireMembershipOf verifica que la membresía exista y pertenezca al cliente.
func requireMembershipOf(ctx context.Context, repo repository.MembershipRepository, id, clientID int64) error {
	m, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("%w: la membresía %d no existe", domain.ErrInvalidInput, id)
	}
	if m.ClientID != clientID {
		return fmt.Errorf("%w: la membresía %d no pertenece al cliente %d", domain.ErrInvalidInput, id, clientID)
	}
	return nil
}

// requirePaymentOf verifica que el pago exista y pertenezca al cliente.
func requirePaymentOf(ctx context.Context, repo repository.PaymentRepository, id, clientID int64) error {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: el pago %d no existe", domain.ErrInvalidInput, id)
	}
	if p.ClientID != clientID {
		return fmt.Errorf("%w: el pago %d no pertenece al cliente %d", domain.ErrInvalidInput, id, clientID)
	}
	return nil
}

// Create registra un pago. Sin membership_id explícito se asocia a la membresía
// vigente del cliente, si tiene una.
func (uc *PaymentUseCase) Create(ctx context.Context, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	in.Amount = entity.RoundMoney(in.Amount)
	method, err := validatePayment(in)
	if err != nil {
		return nil, err
	}
	today := uc.today()
	date, err := resolveDate(in.Date, today)
	if err != nil {
		return nil, err
	}
	p := &entity.Payment{
		ClientID:     in.ClientID,
		MembershipID: in.MembershipID,
		Date:         date,
		Amount:       in.Amount,
		Method:       method,
		Concept:      strings.TrimSpace(in.Concept),
	}
	alertDays := uc.thresholds.AlertDays()
	err = uc.txRunner.RunRegistry(ctx, func(
		clientRepo repository.ClientRepository,
		membershipRepo repository.MembershipRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		client, err := requireClient(ctx, clientRepo, p.ClientID)
		if err != nil {
			return err
		}
		if p.MembershipID != nil {
			if err := requireMembershipOf(ctx, membershipRepo, *p.MembershipID, client.ID); err != nil {
				return err
			}
		} else {
			current, err := currentMembership(ctx, membershipRepo, client.ID, today, alertDays)
			if err != nil {
				return err
			}
			if current != nil {
				p.MembershipID = &current.ID
			}
		}
		if err := paymentRepo.Create(ctx, p); err != nil {
			return err
		}
		p.ClientName, p.ClientPhone = client.Name, client.Phone
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(p), nil
}

// Get obtiene un pago por ID.
func (uc *PaymentUseCase) Get(ctx context.Context, id int64) (*dto.PaymentResponse, error) {
	p, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toPaymentResponse(p), nil
}

// List lista pagos por fecha descendente. from/to son inclusivos ("" = sin límite).
// limit <= 0 usa DefaultPaymentLimit.
func (uc *PaymentUseCase) List(ctx context.Context, clientID int64, from, to string, limit int) ([]*dto.PaymentResponse, error) {
	f := repository.PaymentFilter{ClientID: clientID, Limit: limit}
	if f.Limit <= 0 {
		f.Limit = DefaultPaymentLimit
	}
	var err error
	if f.From, err = dto.ParseDate(from); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	if f.To, err = dto.ParseDate(to); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, err.Error())
	}
	return uc.list(ctx, f)
}

func (uc *PaymentUseCase) list(ctx context.Context, f repository.PaymentFilter) ([]*dto.PaymentResponse, error) {
	list, err := uc.paymentRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PaymentResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPaymentResponse(p))
	}
	return out, nil
}

// Latest últimos pagos registrados (limit <= 0 usa DefaultLatestLimit).
func (uc *PaymentUseCase) Latest(ctx context.Context, limit int) ([]*dto.PaymentResponse, error) {
	if limit <= 0 {
		limit = DefaultLatestLimit
	}
	return uc.list(ctx, repository.PaymentFilter{Limit: limit})
}

// ClientHistory todos los pagos del cliente, más recientes primero.
func (uc *PaymentUseCase) ClientHistory(ctx context.Context, clientID int64) ([]*dto.PaymentResponse, error) {
	c, err := uc.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return uc.list(ctx, repository.PaymentFilter{ClientID: clientID})
}

// monthFilter resuelve año/mes (0 = actual) al rango del primer al último día.
func (uc *PaymentUseCase) monthFilter(year, month int) (repository.PaymentFilter, int, int, error) {
	today := uc.today()
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = int(today.Month())
	}
	if month < 1 || month > 12 {
		return repository.PaymentFilter{}, 0, 0, fmt.Errorf("%w: mes %d fuera de rango", domain.ErrInvalidInput, month)
	}
	if year < 1 {
		return repository.PaymentFilter{}, 0, 0, fmt.Errorf("%w: año %d fuera de rango", domain.ErrInvalidInput, year)
	}
	first, last := membership.MonthRange(year, time.Month(month))
	return repository.PaymentFilter{From: &first, To: &last}, year, month, nil
}

// ListMonth pagos del mes indicado, sin límite de filas.
func (uc *PaymentUseCase) ListMonth(ctx context.Context, year, month int) ([]*dto.PaymentResponse, error) {
	f, _, _, err := uc.monthFilter(year, month)
	if err != nil {
		return nil, err
	}
	return uc.list(ctx, f)
}

// MonthTotal suma los pagos con fecha dentro del mes (ambos extremos incluidos).
// Mes sin pagos devuelve total 0.
func (uc *PaymentUseCase) MonthTotal(ctx context.Context, year, month int) (*dto.MonthTotalResponse, error) {
	f, year, month, err := uc.monthFilter(year, month)
	if err != nil {
		return nil, err
	}
	list, err := uc.paymentRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	total := decimal.Zero
	for _, p := range list {
		total = total.Add(p.Amount)
	}
	return &dto.MonthTotalResponse{
		Year:  year,
		Month: month,
		From:  dto.FormatDate(*f.From),
		To:    dto.FormatDate(*f.To),
		Total: total,
		Count: len(list),
	}, nil
}

// Update modifica un pago. Sin membership_id se conserva la asociación actual, salvo que
// cambie el cliente: entonces se asocia a la membresía vigente del nuevo cliente.
func (uc *PaymentUseCase) Update(ctx context.Context, id int64, in dto.CreatePaymentRequest) (*dto.PaymentResponse, error) {
	in.Amount = entity.RoundMoney(in.Amount)
	method, err := validatePayment(in)
	if err != nil {
		return nil, err
	}
	var updated *entity.Payment
	err = uc.txRunner.RunRegistry(ctx, func(
		clientRepo repository.ClientRepository,
		membershipRepo repository.MembershipRepository,
		paymentRepo repository.PaymentRepository,
	) error {
		p, err := paymentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		date, err := resolveDate(in.Date, p.Date)
		if err != nil {
			return err
		}
		client, err := requireClient(ctx, clientRepo, in.ClientID)
		if err != nil {
			return err
		}
		switch {
		case in.MembershipID != nil:
			if err := requireMembershipOf(ctx, membershipRepo, *in.MembershipID, client.ID); err != nil {
				return err
			}
			p.MembershipID = in.MembershipID
		case client.ID != p.ClientID:
			// La membresía anterior es de otro cliente: se vuelve a resolver la vigente.
			cur, err := currentMembership(ctx, membershipRepo, client.ID, uc.today(), uc.thresholds.AlertDays())
			if err != nil {
				return err
			}
			p.MembershipID = nil
			if cur != nil {
				p.MembershipID = &cur.ID
			}
		}
		p.ClientID = client.ID
		p.Date = date
		p.Amount = in.Amount
		p.Method = method
		p.Concept = strings.TrimSpace(in.Concept)
		if err := paymentRepo.Update(ctx, p); err != nil {
			return err
		}
		p.ClientName, p.ClientPhone = client.Name, client.Phone
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPaymentResponse(updated), nil
}

// Delete elimina el pago. Las membresías que lo referencian quedan sin pago.
func (uc *PaymentUseCase) Delete(ctx context.Context, id int64) error {
	p, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return uc.paymentRepo.Delete(ctx, id)
}
