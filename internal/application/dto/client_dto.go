package dto

// CreateClientRequest body para POST /api/clients y PUT /api/clients/:id.
type CreateClientRequest struct {
	Name      string `json:"name"`
	Phone     string `json:"phone,omitempty"`
	Sex       string `json:"sex,omitempty"`        // Masculino, Femenino, Otro
	BirthDate string `json:"birth_date,omitempty"` // AAAA-MM-DD
}

// ClientResponse cliente en respuestas.
type ClientResponse struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Phone            string `json:"phone,omitempty"`
	Sex              string `json:"sex,omitempty"`
	BirthDate        string `json:"birth_date,omitempty"`
	RegistrationDate string `json:"registration_date"`
	Active           bool   `json:"active"`
}

// PhoneCheckResponse resultado de la verificación de teléfono.
type PhoneCheckResponse struct {
	Available bool            `json:"available"`
	Client    *ClientResponse `json:"client,omitempty"` // cliente que ya usa el teléfono
}
