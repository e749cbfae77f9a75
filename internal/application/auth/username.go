package auth

import "golang.org/x/text/cases"

// UsernamePolicy decide cómo se compara el username en el login y cómo se guarda al crear usuarios.
type UsernamePolicy struct {
	CaseSensitive bool
}

// Normalize devuelve la forma de búsqueda del username: tal cual si distingue mayúsculas,
// o con case folding Unicode si no.
func (p UsernamePolicy) Normalize(username string) string {
	if p.CaseSensitive {
		return username
	}
	return cases.Fold().String(username)
}
