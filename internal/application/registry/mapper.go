package registry

import (
	"time"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/membership"
)

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:               c.ID,
		Name:             c.Name,
		Phone:            c.Phone,
		Sex:              c.Sex,
		BirthDate:        dto.FormatOptionalDate(c.BirthDate),
		RegistrationDate: dto.FormatDate(c.RegistrationDate),
		Active:           c.Active,
	}
}

// toMembershipResponse calcula el estado con la fecha y el umbral de esta lectura.
func toMembershipResponse(m *entity.Membership, today time.Time, alertDays int) *dto.MembershipResponse {
	return &dto.MembershipResponse{
		ID:             m.ID,
		ClientID:       m.ClientID,
		ClientName:     m.ClientName,
		ClientPhone:    m.ClientPhone,
		Type:           m.Type,
		StartDate:      dto.FormatDate(m.StartDate),
		ExpirationDate: dto.FormatDate(m.ExpirationDate),
		Amount:         m.Amount,
		PaymentID:      m.PaymentID,
		Status:         string(membership.Compute(m.ExpirationDate, today, alertDays)),
		DaysRemaining:  membership.DaysBetween(today, m.ExpirationDate),
	}
}

func toPaymentResponse(p *entity.Payment) *dto.PaymentResponse {
	return &dto.PaymentResponse{
		ID:           p.ID,
		ClientID:     p.ClientID,
		ClientName:   p.ClientName,
		ClientPhone:  p.ClientPhone,
		MembershipID: p.MembershipID,
		Date:         dto.FormatDate(p.Date),
		Amount:       p.Amount,
		Method:       p.Method,
		Concept:      p.Concept,
	}
}
