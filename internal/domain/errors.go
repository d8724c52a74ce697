package domain

import (
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// PhoneConflictError indica que el teléfono ya pertenece a otro cliente activo.
type PhoneConflictError struct {
	Phone      string
	ClientID   int64
	ClientName string
}

func (e *PhoneConflictError) Error() string {
	return fmt.Sprintf("el teléfono %s ya está registrado para %s (id %d)", e.Phone, e.ClientName, e.ClientID)
}

func (e *PhoneConflictError) Unwrap() error { return ErrConflict }

// ActiveMembershipError indica que el cliente ya tiene una membresía vigente.
type ActiveMembershipError struct {
	ClientID       int64
	MembershipID   int64
	Status         string
	ExpirationDate time.Time
}

func (e *ActiveMembershipError) Error() string {
	return fmt.Sprintf("el cliente %d ya tiene una membresía %s (id %d, vence %s)",
		e.ClientID, e.Status, e.MembershipID, e.ExpirationDate.Format("2006-01-02"))
}

func (e *ActiveMembershipError) Unwrap() error { return ErrConflict }

// InsufficientStockError detalla la venta rechazada. errors.Is(err, ErrInsufficientStock) es true.
type InsufficientStockError struct {
	ItemID    int64
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para el artículo %d: disponible %d, solicitado %d",
		e.ItemID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
