// Package password hashea y verifica contraseñas de usuarios.
//
// Los hashes nuevos son bcrypt. Los registros importados del sistema anterior guardan un
// SHA-256 hexadecimal sin sal; se siguen aceptando para no bloquear a esos usuarios y
// NeedsRehash permite migrarlos a bcrypt tras un login correcto.
package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch indica que la contraseña no corresponde al hash almacenado.
var ErrMismatch = errors.New("password: no coincide")

// ErrUnknownFormat indica un hash almacenado que no es bcrypt ni SHA-256 legado.
var ErrUnknownFormat = errors.New("password: formato de hash desconocido")

const legacyDigestLen = sha256.Size * 2

// Hasher genera y compara hashes de contraseña.
type Hasher struct {
	cost int
}

// NewHasher construye el hasher con el costo bcrypt indicado (fuera de rango -> DefaultCost).
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash devuelve el hash bcrypt de la contraseña.
func (h *Hasher) Hash(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("password: generar hash: %w", err)
	}
	return string(hash), nil
}

// Compare verifica plain contra el hash almacenado. Devuelve ErrMismatch si no coincide.
func (h *Hasher) Compare(stored, plain string) error {
	switch {
	case isBcrypt(stored):
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	case isLegacyDigest(stored):
		computed := LegacyDigest(plain)
		if subtle.ConstantTimeCompare([]byte(strings.ToLower(stored)), []byte(computed)) != 1 {
			return ErrMismatch
		}
		return nil
	default:
		return ErrUnknownFormat
	}
}

// NeedsRehash informa si el hash almacenado es del formato legado.
func (h *Hasher) NeedsRehash(stored string) bool {
	return isLegacyDigest(stored)
}

// LegacyDigest calcula el digest SHA-256 hexadecimal usado por los registros importados.
func LegacyDigest(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

func isBcrypt(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func isLegacyDigest(s string) bool {
	if len(s) != legacyDigestLen {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
