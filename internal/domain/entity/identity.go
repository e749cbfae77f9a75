package entity

// Identity es el subconjunto saneado de User que se guarda en la sesión y se devuelve en la API.
// No tiene campo para el hash de la contraseña.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IdentityFromUser copia los campos públicos del usuario.
func IdentityFromUser(u *User) *Identity {
	if u == nil {
		return nil
	}
	return &Identity{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// HasRole informa si la identidad tiene exactamente el rol indicado.
func (i *Identity) HasRole(role string) bool {
	return i != nil && i.Role == role
}
