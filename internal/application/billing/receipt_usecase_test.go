package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kyogym/internal/application/billing"
	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/registry"
	"github.com/jhoicas/kyogym/internal/domain"
	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/infrastructure/settings"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite/sqlitetest"
)

type staticProfile entity.GymProfile

func (p staticProfile) Profile() entity.GymProfile { return entity.GymProfile(p) }

type captureGenerator struct {
	last *billing.Receipt
	err  error
}

func (g *captureGenerator) GenerateReceiptPDF(_ context.Context, r *billing.Receipt) ([]byte, error) {
	g.last = r
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-fake"), nil
}

func TestFormatFolio(t *testing.T) {
	date := time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		format string
		number int64
		want   string
	}{
		{"", 7, "FAC-2026-0007"},
		{"   ", 7, "FAC-2026-0007"},
		{"KG-{YYYY}{MM}-{NNNN}", 42, "KG-202602-0042"},
		{"R{NNNN}", 123456, "R123456"},
		{"SIN-MARCAS", 1, "SIN-MARCAS"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, billing.FormatFolio(tc.format, date, tc.number), "formato %q", tc.format)
	}
}

type receiptEnv struct {
	uc          *billing.ReceiptUseCase
	generator   *captureGenerator
	memberships *registry.MembershipUseCase
	payments    *registry.PaymentUseCase
	clientID    int64
}

func newReceiptEnv(t *testing.T) *receiptEnv {
	t.Helper()
	db := sqlitetest.New(t)
	tx := sqlite.NewTxRunner(db)
	clientRepo := sqlite.NewClientRepository(db)
	membershipRepo := sqlite.NewMembershipRepository(db)
	paymentRepo := sqlite.NewPaymentRepository(db)
	clock := registry.WithClock(func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) })

	clients := registry.NewClientUseCase(tx, clientRepo, clock)
	c, err := clients.Create(context.Background(), dto.CreateClientRequest{Name: "Ana Torres", Phone: "555-0101"})
	require.NoError(t, err)

	gen := &captureGenerator{}
	profile := staticProfile{GymName: "KyoGym Centro", FolioFormat: "KG-{YYYY}-{NNNN}"}
	return &receiptEnv{
		uc:          billing.NewReceiptUseCase(membershipRepo, paymentRepo, profile, gen),
		generator:   gen,
		memberships: registry.NewMembershipUseCase(tx, clientRepo, membershipRepo, settings.StaticThreshold(7), nil, clock),
		payments:    registry.NewPaymentUseCase(tx, clientRepo, membershipRepo, paymentRepo, settings.StaticThreshold(7), clock),
		clientID:    c.ID,
	}
}

func TestMembershipReceipt(t *testing.T) {
	e := newReceiptEnv(t)
	ctx := context.Background()
	res, err := e.memberships.Enroll(ctx, dto.EnrollRequest{ClientID: e.clientID, Amount: decimal.NewFromInt(50), Method: "Tarjeta"})
	require.NoError(t, err)

	pdf, filename, err := e.uc.MembershipReceipt(ctx, res.Membership.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), pdf)

	r := e.generator.last
	require.NotNil(t, r)
	assert.Equal(t, billing.FormatFolio("KG-{YYYY}-{NNNN}", r.Date, res.Membership.ID), r.Folio)
	assert.Equal(t, r.Folio+".pdf", filename)
	assert.Equal(t, "KyoGym Centro", r.Gym.GymName)
	assert.Equal(t, "Ana Torres", r.ClientName)
	assert.Equal(t, "555-0101", r.ClientPhone)
	assert.Equal(t, "Tarjeta", r.Method)
	require.Len(t, r.Lines, 1)
	assert.Equal(t, "Membresía Mensual", r.Lines[0].Description)
	assert.True(t, r.Total.Equal(decimal.NewFromInt(50)))
	require.Len(t, r.Notes, 1)
	assert.Equal(t, "Vigencia: 09/02/2026 al 11/03/2026", r.Notes[0])
}

func TestPaymentReceipt(t *testing.T) {
	e := newReceiptEnv(t)
	ctx := context.Background()
	m, err := e.memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: e.clientID})
	require.NoError(t, err)
	p, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: e.clientID, Amount: decimal.RequireFromString("35.50")})
	require.NoError(t, err)
	require.NotNil(t, p.MembershipID)
	assert.Equal(t, m.ID, *p.MembershipID)

	_, filename, err := e.uc.PaymentReceipt(ctx, p.ID)
	require.NoError(t, err)

	r := e.generator.last
	assert.Equal(t, "KG-2026-0001.pdf", filename)
	assert.Equal(t, "Efectivo", r.Method)
	require.Len(t, r.Lines, 1)
	assert.Equal(t, "Pago", r.Lines[0].Description, "concepto vacío")
	assert.True(t, r.Total.Equal(decimal.RequireFromString("35.5")))
	assert.Equal(t, []string{"Membresía Mensual vence el 11/03/2026"}, r.Notes)
}

func TestReceipt_NoEncontrado(t *testing.T) {
	e := newReceiptEnv(t)
	ctx := context.Background()

	_, _, err := e.uc.MembershipReceipt(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, _, err = e.uc.PaymentReceipt(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, e.generator.last)
}

func TestReceipt_ErrorDelGenerador(t *testing.T) {
	e := newReceiptEnv(t)
	ctx := context.Background()
	p, err := e.payments.Create(ctx, dto.CreatePaymentRequest{ClientID: e.clientID, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)

	boom := errors.New("sin fuente")
	e.generator.err = boom
	_, _, err = e.uc.PaymentReceipt(ctx, p.ID)
	assert.ErrorIs(t, err, boom)
}
