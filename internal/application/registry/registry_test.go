package registry_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/registry"
	"github.com/jhoicas/kyogym/internal/domain"
	"github.com/jhoicas/kyogym/internal/infrastructure/settings"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite/sqlitetest"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fixedNow 15 de marzo de 2026 a media mañana.
var fixedNow = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)

type fakeRecorder struct {
	mu    sync.Mutex
	kinds []string
}

func (r *fakeRecorder) MembershipCreated(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds = append(r.kinds, kind)
}

type env struct {
	clients     *registry.ClientUseCase
	memberships *registry.MembershipUseCase
	payments    *registry.PaymentUseCase
	recorder    *fakeRecorder
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := sqlitetest.New(t)
	tx := sqlite.NewTxRunner(db)
	clientRepo := sqlite.NewClientRepository(db)
	membershipRepo := sqlite.NewMembershipRepository(db)
	paymentRepo := sqlite.NewPaymentRepository(db)
	clock := registry.WithClock(func() time.Time { return fixedNow })
	rec := &fakeRecorder{}
	return &env{
		clients:     registry.NewClientUseCase(tx, clientRepo, clock),
		memberships: registry.NewMembershipUseCase(tx, clientRepo, membershipRepo, settings.StaticThreshold(7), rec, clock),
		payments:    registry.NewPaymentUseCase(tx, clientRepo, membershipRepo, paymentRepo, settings.StaticThreshold(7), clock),
		recorder:    rec,
	}
}

func (e *env) client(t *testing.T, name, phone string) *dto.ClientResponse {
	t.Helper()
	c, err := e.clients.Create(context.Background(), dto.CreateClientRequest{Name: name, Phone: phone, Sex: "Femenino"})
	require.NoError(t, err)
	return c
}

func daysAgo(n int) string {
	return fixedNow.AddDate(0, 0, -n).Format(dto.DateLayout)
}

func amount(s string) dto.LenientAmount {
	return dto.NewLenientAmount(decimal.RequireFromString(s))
}

// ──────────────────────────────────────────────────────────────────────────────
// Clientes
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_CreateYGet(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	c, err := e.clients.Create(ctx, dto.CreateClientRequest{
		Name: "  Ana Torres ", Phone: "555-0101", Sex: "Femenino", BirthDate: "1990-05-20",
	})
	require.NoError(t, err)
	assert.Positive(t, c.ID)
	assert.Equal(t, "Ana Torres", c.Name)
	assert.Equal(t, "2026-03-15", c.RegistrationDate)
	assert.Equal(t, "1990-05-20", c.BirthDate)
	assert.True(t, c.Active)

	got, err := e.clients.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c, got)

	_, err = e.clients.Get(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []dto.CreateClientRequest{
		{Name: "   "},
		{Name: "Luis", Sex: "X"},
		{Name: "Luis", BirthDate: "20/05/1990"},
	}
	for _, in := range cases {
		_, err := e.clients.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "request %+v", in)
	}
}

func TestClient_TelefonoDuplicado(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.client(t, "Ana", "555-0101")

	_, err := e.clients.Create(ctx, dto.CreateClientRequest{Name: "Otra", Phone: "555-0101"})
	var conflict *domain.PhoneConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, ana.ID, conflict.ClientID)
	assert.Equal(t, "Ana", conflict.ClientName)
	assert.ErrorIs(t, err, domain.ErrConflict)

	check, err := e.clients.CheckPhone(ctx, "555-0101", 0)
	require.NoError(t, err)
	assert.False(t, check.Available)
	require.NotNil(t, check.Client)
	assert.Equal(t, ana.ID, check.Client.ID)

	// El propio cliente puede conservar su teléfono al editar.
	check, err = e.clients.CheckPhone(ctx, "555-0101", ana.ID)
	require.NoError(t, err)
	assert.True(t, check.Available)

	_, err = e.clients.Update(ctx, ana.ID, dto.CreateClientRequest{Name: "Ana María", Phone: "555-0101"})
	assert.NoError(t, err)

	// Un cliente dado de baja libera su teléfono.
	require.NoError(t, e.clients.Deactivate(ctx, ana.ID))
	_, err = e.clients.Create(ctx, dto.CreateClientRequest{Name: "Nueva", Phone: "555-0101"})
	assert.NoError(t, err)
}

func TestClient_TelefonoVacioNoSeVerifica(t *testing.T) {
	e := newEnv(t)
	e.client(t, "Uno", "")
	e.client(t, "Dos", "")

	check, err := e.clients.CheckPhone(context.Background(), "  ", 0)
	require.NoError(t, err)
	assert.True(t, check.Available)
}

func TestClient_BajaLogica(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.client(t, "Ana", "1")
	e.client(t, "Beto", "2")

	require.NoError(t, e.clients.Deactivate(ctx, ana.ID))

	active, err := e.clients.List(ctx, "", false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Beto", active[0].Name)

	all, err := e.clients.List(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Sigue existiendo para consultas directas.
	got, err := e.clients.Get(ctx, ana.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	assert.ErrorIs(t, e.clients.Deactivate(ctx, 9999), domain.ErrNotFound)
}

func TestClient_Busqueda(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.client(t, "Carla Ruiz", "555-1111")
	e.client(t, "Diego Paz", "555-2222")

	byName, err := e.clients.List(ctx, "carla", false)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Carla Ruiz", byName[0].Name)

	byPhone, err := e.clients.List(ctx, "2222", false)
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Diego Paz", byPhone[0].Name)
}

func TestClient_CountBySex(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.client(t, "Ana", "1")
	_, err := e.clients.Create(ctx, dto.CreateClientRequest{Name: "Beto", Sex: "Masculino"})
	require.NoError(t, err)
	_, err = e.clients.Create(ctx, dto.CreateClientRequest{Name: "Sin dato"})
	require.NoError(t, err)

	counts, err := e.clients.CountBySex(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Masculino": 1, "Femenino": 1, "Otro": 0}, counts)
}

// ──────────────────────────────────────────────────────────────────────────────
// Membresías
// ──────────────────────────────────────────────────────────────────────────────

func TestMembership_EstadosPorInicio(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	cases := []struct {
		startedDaysAgo int
		want           string
		daysRemaining  int
	}{
		{10, "Activa", 20},
		{25, "Por Vencer", 5},
		{35, "Vencida", -5},
		{30, "Por Vencer", 0},
		{31, "Vencida", -1},
	}
	for _, tc := range cases {
		c := e.client(t, "Cliente", "")
		m, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{
			ClientID: c.ID, StartDate: daysAgo(tc.startedDaysAgo), Amount: amount("40"),
		})
		require.NoError(t, err)
		assert.Equal(t, tc.want, m.Status, "inicio hace %d días", tc.startedDaysAgo)
		assert.Equal(t, tc.daysRemaining, m.DaysRemaining, "inicio hace %d días", tc.startedDaysAgo)
	}
}

func TestMembership_VencimientoTreintaDias(t *testing.T) {
	e := newEnv(t)
	c := e.client(t, "Ana", "")

	m, err := e.memberships.Create(context.Background(), dto.CreateMembershipRequest{
		ClientID: c.ID, StartDate: "2024-02-15", Amount: amount("40"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-16", m.ExpirationDate)
	assert.Equal(t, "Mensual", m.Type)
}

func TestMembership_Defaults(t *testing.T) {
	e := newEnv(t)
	c := e.client(t, "Ana", "")

	m, err := e.memberships.Create(context.Background(), dto.CreateMembershipRequest{ClientID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", m.StartDate)
	assert.Equal(t, "2026-04-14", m.ExpirationDate)
	assert.True(t, m.Amount.IsZero())
	assert.Equal(t, "Activa", m.Status)
	assert.Equal(t, "Ana", m.ClientName)
	assert.Equal(t, []string{"Mensual"}, e.recorder.kinds)
}

func TestMembership_MontoNegativoSeVuelveCero(t *testing.T) {
	e := newEnv(t)
	c := e.client(t, "Ana", "")

	m, err := e.memberships.Create(context.Background(), dto.CreateMembershipRequest{
		ClientID: c.ID, Amount: dto.NewLenientAmount(decimal.NewFromInt(-5)),
	})
	require.NoError(t, err)
	assert.True(t, m.Amount.IsZero())
}

func TestMembership_Precondiciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")

	_, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: 9999})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.memberships.Create(ctx, dto.CreateMembershipRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := int64(777)
	_, err = e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, PaymentID: &missing})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, StartDate: "15-03-2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, e.recorder.kinds)
}

func TestMembership_Renew(t *testing.T) {
	e := newEnv(t)
	c := e.client(t, "Ana", "")

	m, err := e.memberships.Renew(context.Background(), dto.RenewRequest{ClientID: c.ID, Amount: amount("35.50")})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-15", m.StartDate)
	assert.Equal(t, "Mensual", m.Type)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("35.50")))
}

func TestMembership_Enroll(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")

	res, err := e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: c.ID, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	require.NotNil(t, res.Membership.PaymentID)
	require.NotNil(t, res.Payment.MembershipID)
	assert.Equal(t, res.Payment.ID, *res.Membership.PaymentID)
	assert.Equal(t, res.Membership.ID, *res.Payment.MembershipID)
	assert.Equal(t, "Efectivo", res.Payment.Method)
	assert.Equal(t, registry.EnrollmentConcept, res.Payment.Concept)
	assert.Equal(t, "Activa", res.Membership.Status)

	// El pago guardado apunta a la membresía.
	p, err := e.payments.Get(ctx, res.Payment.ID)
	require.NoError(t, err)
	require.NotNil(t, p.MembershipID)
	assert.Equal(t, res.Membership.ID, *p.MembershipID)

	// Con una membresía vigente no se puede inscribir de nuevo.
	_, err = e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: c.ID, Amount: decimal.NewFromInt(50)})
	var active *domain.ActiveMembershipError
	require.True(t, errors.As(err, &active))
	assert.Equal(t, res.Membership.ID, active.MembershipID)
	assert.Equal(t, "Activa", active.Status)

	history, err := e.payments.ClientHistory(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "la inscripción rechazada no deja pagos")
}

func TestMembership_EnrollConMembresiaVencida(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")
	_, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, StartDate: daysAgo(40)})
	require.NoError(t, err)

	res, err := e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: c.ID, Amount: decimal.NewFromInt(50), Method: "Tarjeta"})
	require.NoError(t, err)
	assert.Equal(t, "Tarjeta", res.Payment.Method)
}

func TestMembership_EnrollValidaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")

	_, err := e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: c.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: c.ID, Amount: decimal.NewFromInt(10), Method: "Cheque"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: 404, Amount: decimal.NewFromInt(10)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMembership_ListYFiltros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.client(t, "Ana", "")
	beto := e.client(t, "Beto", "")

	for _, start := range []int{10, 25, 35} {
		_, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: ana.ID, StartDate: daysAgo(start)})
		require.NoError(t, err)
	}
	_, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: beto.ID, StartDate: daysAgo(27)})
	require.NoError(t, err)

	all, err := e.memberships.List(ctx, 0, "")
	require.NoError(t, err)
	require.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].ExpirationDate, all[i].ExpirationDate, "vencimiento descendente")
	}

	onlyAna, err := e.memberships.List(ctx, ana.ID, "")
	require.NoError(t, err)
	assert.Len(t, onlyAna, 3)

	expiring, err := e.memberships.List(ctx, 0, "Por Vencer")
	require.NoError(t, err)
	assert.Len(t, expiring, 2)

	_, err = e.memberships.List(ctx, 0, "Congelada")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	soon, err := e.memberships.ListExpiringSoon(ctx, 0)
	require.NoError(t, err)
	require.Len(t, soon, 2)
	assert.Equal(t, "Beto", soon[0].ClientName, "vence primero")

	one, err := e.memberships.ListExpiringSoon(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)

	counts, err := e.memberships.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusCountResponse{Active: 1, Expiring: 2, Expired: 1}, *counts)

	// Los clientes dados de baja desaparecen de listados y conteos.
	require.NoError(t, e.clients.Deactivate(ctx, beto.ID))
	counts, err = e.memberships.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, dto.StatusCountResponse{Active: 1, Expiring: 1, Expired: 1}, *counts)
}

func TestMembership_CountByStatusVacio(t *testing.T) {
	e := newEnv(t)
	counts, err := e.memberships.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dto.StatusCountResponse{}, *counts)
}

func TestMembership_CurrentForClient(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")

	cur, err := e.memberships.CurrentForClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, cur)

	_, err = e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, StartDate: daysAgo(40)})
	require.NoError(t, err)
	cur, err = e.memberships.CurrentForClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Nil(t, cur, "una vencida no es vigente")

	older, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, StartDate: daysAgo(20)})
	require.NoError(t, err)
	newer, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, StartDate: daysAgo(2)})
	require.NoError(t, err)

	cur, err = e.memberships.CurrentForClient(ctx, c.ID)
	require.NoError(t, err)
	require.NotNil(t, cur)
	assert.Equal(t, newer.ID, cur.ID, "gana el vencimiento más lejano")
	assert.NotEqual(t, older.ID, cur.ID)
}

func TestMembership_UpdateYDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")
	m, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, StartDate: "2026-03-01", Amount: amount("40")})
	require.NoError(t, err)

	// Sin fecha de inicio se conserva la actual.
	up, err := e.memberships.Update(ctx, m.ID, dto.CreateMembershipRequest{ClientID: c.ID, Amount: amount("45")})
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", up.StartDate)
	assert.Equal(t, "2026-03-31", up.ExpirationDate)
	assert.True(t, up.Amount.Equal(decimal.NewFromInt(45)))

	up, err = e.memberships.Update(ctx, m.ID, dto.CreateMembershipRequest{ClientID: c.ID, StartDate: "2026-03-10", Type: "Promo"})
	require.NoError(t, err)
	assert.Equal(t, "2026-04-09", up.ExpirationDate)
	assert.Equal(t, "Promo", up.Type)

	_, err = e.memberships.Update(ctx, 9999, dto.CreateMembershipRequest{ClientID: c.ID})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, e.memberships.Delete(ctx, m.ID))
	_, err = e.memberships.Get(ctx, m.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.memberships.Delete(ctx, m.ID), domain.ErrNotFound)
}

func TestMembership_DeleteDesvinculaPagos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")
	res, err := e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: c.ID, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	require.NoError(t, e.memberships.Delete(ctx, res.Membership.ID))

	p, err := e.payments.Get(ctx, res.Payment.ID)
	require.NoError(t, err)
	assert.Nil(t, p.MembershipID)
}

func TestMembership_PagoDeOtroClienteSeRechaza(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.client(t, "Ana", "1")
	luis := e.client(t, "Luis", "2")

	pagoAna, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: ana.ID, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	_, err = e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: luis.ID, PaymentID: &pagoAna.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	m, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: ana.ID, PaymentID: &pagoAna.ID})
	require.NoError(t, err)

	_, err = e.memberships.Update(ctx, m.ID, dto.CreateMembershipRequest{ClientID: ana.ID, PaymentID: ptr(int64(9999))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	pagoLuis, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: luis.ID, Amount: decimal.NewFromInt(40)})
	require.NoError(t, err)
	_, err = e.memberships.Update(ctx, m.ID, dto.CreateMembershipRequest{ClientID: ana.ID, PaymentID: &pagoLuis.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Al pasar la membresía a otro cliente sin payment_id se suelta el pago anterior.
	moved, err := e.memberships.Update(ctx, m.ID, dto.CreateMembershipRequest{ClientID: luis.ID})
	require.NoError(t, err)
	assert.Equal(t, luis.ID, moved.ClientID)
	assert.Nil(t, moved.PaymentID)

	// Con el mismo cliente se conserva.
	kept, err := e.memberships.Update(ctx, m.ID, dto.CreateMembershipRequest{ClientID: luis.ID, PaymentID: &pagoLuis.ID})
	require.NoError(t, err)
	kept, err = e.memberships.Update(ctx, kept.ID, dto.CreateMembershipRequest{ClientID: luis.ID, Amount: amount("45")})
	require.NoError(t, err)
	require.NotNil(t, kept.PaymentID)
	assert.Equal(t, pagoLuis.ID, *kept.PaymentID)
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestPayment_CreateAsociaMembresiaVigente(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "555")

	p, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: c.ID, Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Nil(t, p.MembershipID, "sin membresía vigente no se asocia nada")
	assert.Equal(t, "Efectivo", p.Method)
	assert.Equal(t, "2026-03-15", p.Date)
	assert.Equal(t, "Ana", p.ClientName)

	m, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, StartDate: daysAgo(3)})
	require.NoError(t, err)

	p, err = e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: c.ID, Amount: decimal.NewFromInt(20), Method: "Transferencia"})
	require.NoError(t, err)
	require.NotNil(t, p.MembershipID)
	assert.Equal(t, m.ID, *p.MembershipID)
}

func TestPayment_CambioDeClienteReasociaMembresia(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.client(t, "Ana", "1")
	luis := e.client(t, "Luis", "2")

	mAna, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: ana.ID, StartDate: daysAgo(2)})
	require.NoError(t, err)
	p, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: ana.ID, Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	require.NotNil(t, p.MembershipID)
	require.Equal(t, mAna.ID, *p.MembershipID)

	// Luis sin membresía vigente: el pago queda sin membresía.
	p, err = e.payments.Update(ctx, p.ID, dto.CreatePaymentRequest{ClientID: luis.ID, Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	assert.Equal(t, luis.ID, p.ClientID)
	assert.Nil(t, p.MembershipID)

	// De vuelta a Ana se asocia a su membresía vigente.
	p, err = e.payments.Update(ctx, p.ID, dto.CreatePaymentRequest{ClientID: ana.ID, Amount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	require.NotNil(t, p.MembershipID)
	assert.Equal(t, mAna.ID, *p.MembershipID)

	// Una membresía explícita de otro cliente se rechaza.
	_, err = e.payments.Update(ctx, p.ID, dto.CreatePaymentRequest{ClientID: luis.ID, Amount: decimal.NewFromInt(20), MembershipID: &mAna.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	stored, err := e.payments.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, ana.ID, stored.ClientID)
}

func TestRegistry_MontosSeRedondeanACentavos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")

	p, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: c.ID, Amount: decimal.RequireFromString("10.005")})
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("10.01")), p.Amount.String())

	stored, err := e.payments.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(decimal.RequireFromString("10.01")), stored.Amount.String())

	// Menos de medio centavo no es un monto positivo.
	_, err = e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: c.ID, Amount: decimal.RequireFromString("0.004")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	m, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: c.ID, Amount: amount("35.555")})
	require.NoError(t, err)
	assert.True(t, m.Amount.Equal(decimal.RequireFromString("35.56")), m.Amount.String())
}

func TestPayment_Validaciones(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.client(t, "Ana", "1")
	beto := e.client(t, "Beto", "2")
	m, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: beto.ID})
	require.NoError(t, err)

	cases := []dto.CreatePaymentRequest{
		{ClientID: ana.ID, Amount: decimal.Zero},
		{ClientID: ana.ID, Amount: decimal.NewFromInt(-3)},
		{ClientID: ana.ID, Amount: decimal.NewFromInt(10), Method: "Cheque"},
		{ClientID: ana.ID, Amount: decimal.NewFromInt(10), Date: "ayer"},
		{ClientID: 404, Amount: decimal.NewFromInt(10)},
		{ClientID: ana.ID, Amount: decimal.NewFromInt(10), MembershipID: &m.ID},
	}
	for _, in := range cases {
		_, err := e.payments.Create(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "request %+v", in)
	}
}

func TestPayment_TotalDelMesConCambioDeAnio(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")

	for _, p := range []struct{ date, amount string }{
		{"2024-12-15", "50"},
		{"2024-12-31", "0.50"},
		{"2025-01-02", "30"},
		{"2024-11-30", "7"},
	} {
		_, err := e.payments.Create(ctx, dto.CreatePaymentRequest{
			ClientID: c.ID, Date: p.date, Amount: decimal.RequireFromString(p.amount),
		})
		require.NoError(t, err)
	}

	total, err := e.payments.MonthTotal(ctx, 2024, 12)
	require.NoError(t, err)
	assert.True(t, total.Total.Equal(decimal.RequireFromString("50.50")), "total %s", total.Total)
	assert.Equal(t, 2, total.Count)
	assert.Equal(t, "2024-12-01", total.From)
	assert.Equal(t, "2024-12-31", total.To)

	jan, err := e.payments.MonthTotal(ctx, 2025, 1)
	require.NoError(t, err)
	assert.True(t, jan.Total.Equal(decimal.NewFromInt(30)))

	empty, err := e.payments.MonthTotal(ctx, 2023, 6)
	require.NoError(t, err)
	assert.True(t, empty.Total.IsZero())
	assert.Zero(t, empty.Count)

	list, err := e.payments.ListMonth(ctx, 2024, 12)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestPayment_EscenarioDiciembre(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")
	_, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: c.ID, Date: "2024-12-15", Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	_, err = e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: c.ID, Date: "2025-01-02", Amount: decimal.NewFromInt(30)})
	require.NoError(t, err)

	total, err := e.payments.MonthTotal(ctx, 2024, 12)
	require.NoError(t, err)
	assert.True(t, total.Total.Equal(decimal.NewFromInt(50)), "total %s", total.Total)
}

func TestPayment_MesActualYRangos(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")
	_, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: c.ID, Amount: decimal.NewFromInt(12)})
	require.NoError(t, err)

	cur, err := e.payments.MonthTotal(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2026, cur.Year)
	assert.Equal(t, 3, cur.Month)
	assert.True(t, cur.Total.Equal(decimal.NewFromInt(12)))

	_, err = e.payments.MonthTotal(ctx, 2026, 13)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = e.payments.ListMonth(ctx, 2026, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPayment_ListLatestYHistorial(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	ana := e.client(t, "Ana", "1")
	beto := e.client(t, "Beto", "2")

	for i, date := range []string{"2026-03-01", "2026-03-05", "2026-03-10", "2026-02-20", "2026-03-12", "2026-03-14"} {
		client := ana.ID
		if i%2 == 1 {
			client = beto.ID
		}
		_, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: client, Date: date, Amount: decimal.NewFromInt(int64(10 + i))})
		require.NoError(t, err)
	}

	latest, err := e.payments.Latest(ctx, 0)
	require.NoError(t, err)
	require.Len(t, latest, registry.DefaultLatestLimit)
	assert.Equal(t, "2026-03-14", latest[0].Date)

	ranged, err := e.payments.List(ctx, 0, "2026-03-01", "2026-03-10", 0)
	require.NoError(t, err)
	assert.Len(t, ranged, 3)

	onlyAna, err := e.payments.List(ctx, ana.ID, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, onlyAna, 3)

	_, err = e.payments.List(ctx, 0, "marzo", "", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	history, err := e.payments.ClientHistory(ctx, beto.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2026-03-14", history[0].Date)

	_, err = e.payments.ClientHistory(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPayment_UpdateYDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	c := e.client(t, "Ana", "")
	res, err := e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: c.ID, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)

	// Sin membership_id se conserva la asociación.
	up, err := e.payments.Update(ctx, res.Payment.ID, dto.CreatePaymentRequest{
		ClientID: c.ID, Amount: decimal.NewFromInt(55), Method: "Tarjeta", Concept: "Ajuste",
	})
	require.NoError(t, err)
	require.NotNil(t, up.MembershipID)
	assert.Equal(t, res.Membership.ID, *up.MembershipID)
	assert.Equal(t, res.Payment.Date, up.Date)
	assert.Equal(t, "Tarjeta", up.Method)

	_, err = e.payments.Update(ctx, 9999, dto.CreatePaymentRequest{ClientID: c.ID, Amount: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, e.payments.Delete(ctx, res.Payment.ID))
	assert.ErrorIs(t, e.payments.Delete(ctx, res.Payment.ID), domain.ErrNotFound)

	m, err := e.memberships.Get(ctx, res.Membership.ID)
	require.NoError(t, err)
	assert.Nil(t, m.PaymentID, "la membresía queda sin pago")
}
