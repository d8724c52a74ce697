// Package settings lee el archivo JSON de configuración del gimnasio que edita la UI
// (datos del negocio, formato de folio y días de alerta de vencimiento).
package settings

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/membership"
)

// Claves del archivo de configuración.
const (
	keyAlertDays   = "dias_alerta_vencimiento"
	keyGymName     = "nombre_gimnasio"
	keyAddress     = "direccion"
	keyPhone       = "telefono"
	keyEmail       = "email"
	keyTaxID       = "rfc"
	keyFolioFormat = "formato_folio"
)

// Valores por defecto del perfil.
const (
	DefaultGymName     = "KyoGym"
	DefaultFolioFormat = "FAC-{YYYY}-{NNNN}"
)

// FileStore lee el archivo en cada llamada: un cambio hecho por la UI aplica sin reiniciar.
type FileStore struct {
	path string
	log  zerolog.Logger
}

// NewFileStore construye el lector sobre path.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	return &FileStore{path: path, log: log}
}

func (s *FileStore) read() (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

// AlertDays devuelve dias_alerta_vencimiento. Archivo ausente o ilegible, valor no entero
// o negativo → 7. Nunca falla.
func (s *FileStore) AlertDays() int {
	v, err := s.read()
	if err != nil {
		s.log.Debug().Err(err).Str("file", s.path).Msg("settings: usando días de alerta por defecto")
		return membership.DefaultAlertDays
	}
	n, ok := intValue(v.Get(keyAlertDays))
	if !ok || n < 0 {
		s.log.Debug().Interface("value", v.Get(keyAlertDays)).Msg("settings: dias_alerta_vencimiento inválido")
		return membership.DefaultAlertDays
	}
	return n
}

// intValue acepta enteros JSON (float64 sin decimales) y texto numérico.
func intValue(raw any) (int, bool) {
	switch x := raw.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		if x != float64(int(x)) {
			return 0, false
		}
		return int(x), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}

// Profile devuelve los datos del gimnasio con valores por defecto para lo que falte.
func (s *FileStore) Profile() entity.GymProfile {
	p := entity.GymProfile{GymName: DefaultGymName, FolioFormat: DefaultFolioFormat}
	v, err := s.read()
	if err != nil {
		s.log.Debug().Err(err).Str("file", s.path).Msg("settings: usando perfil por defecto")
		return p
	}
	if name := strings.TrimSpace(v.GetString(keyGymName)); name != "" {
		p.GymName = name
	}
	if f := strings.TrimSpace(v.GetString(keyFolioFormat)); f != "" {
		p.FolioFormat = f
	}
	p.Address = v.GetString(keyAddress)
	p.Phone = v.GetString(keyPhone)
	p.Email = v.GetString(keyEmail)
	p.TaxID = v.GetString(keyTaxID)
	return p
}

// StaticThreshold umbral fijo (pruebas y herramientas de línea de comandos).
type StaticThreshold int

// AlertDays implementa el proveedor de umbral; negativos usan el valor por defecto.
func (t StaticThreshold) AlertDays() int {
	if t < 0 {
		return membership.DefaultAlertDays
	}
	return int(t)
}
