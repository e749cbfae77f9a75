package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrUserNotFound          = errors.New("usuario no encontrado")
	ErrInvalidCredentials    = errors.New("contraseña incorrecta")
	ErrUsernameAlreadyExists = errors.New("el username ya está registrado")
	ErrInvalidInput          = errors.New("entrada inválida")
	ErrUnauthorized          = errors.New("no autenticado")
	ErrForbidden             = errors.New("acceso denegado")
	ErrSessionTeardown       = errors.New("no se pudo destruir la sesión")
	ErrSessionUnavailable    = errors.New("almacenamiento de sesiones no disponible")
)
