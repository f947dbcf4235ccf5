package usecase

import (
	"net/url"
	"regexp"
	"strings"
)

// Límite común de longitud para campos de texto (columnas VARCHAR(255)).
const maxFieldLen = 255

// Mensajes compartidos entre entidades.
const (
	msgEmailTaken      = "This email address is already registered."
	msgCompanyMissing  = "The selected company does not exist."
	msgCompanyRequired = "Company is required."
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// validEmail valida el formato de un email (chequeo superficial, el formato
// estricto lo termina decidiendo el servidor de correo).
func validEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// validURL exige URL absoluta http(s) con host.
func validURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// trimmed recorta espacios; los campos se normalizan antes de validar y persistir.
func trimmed(s string) string {
	return strings.TrimSpace(s)
}
