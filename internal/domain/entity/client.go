package entity

import "time"

// Valores permitidos para Client.Sex (vacío = no informado).
const (
	SexMale   = "Masculino"
	SexFemale = "Femenino"
	SexOther  = "Otro"
)

// ValidSex reporta si s es un valor de sexo aceptado (incluye vacío).
func ValidSex(s string) bool {
	switch s {
	case "", SexMale, SexFemale, SexOther:
		return true
	}
	return false
}

// Client representa un cliente del gimnasio. El borrado es lógico (Active=false).
type Client struct {
	ID               int64
	Name             string
	Phone            string
	Sex              string
	BirthDate        *time.Time
	RegistrationDate time.Time
	Active           bool
}
