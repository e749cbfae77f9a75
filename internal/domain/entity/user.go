package entity

import "time"

// Roles conocidos para User. La enumeración es abierta: la base puede traer otros valores.
const (
	RoleAdmin        = "admin"
	RoleInvestigador = "investigador"
	RoleAsistente    = "asistente"
)

// User representa un usuario del sistema de administración de investigación.
type User struct {
	ID           int64
	Username     string
	PasswordHash string // bcrypt o SHA-256 legado; nunca sale del dominio
	Name         string
	Email        string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
