package entity

// GymProfile datos del gimnasio que aparecen en recibos y reportes.
type GymProfile struct {
	GymName     string
	Address     string
	Phone       string
	Email       string
	TaxID       string
	FolioFormat string // ej. "FAC-{YYYY}-{NNNN}"
}
