package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Investigacion-api/internal/application/auth"
	"github.com/jhoicas/Investigacion-api/internal/application/dto"
	"github.com/jhoicas/Investigacion-api/internal/domain"
	"github.com/jhoicas/Investigacion-api/pkg/logger"
)

// AuthHandler maneja login, logout y /me.
type AuthHandler struct {
	uc       *auth.AuthUseCase
	sessions *SessionManager
	log      *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, sessions *SessionManager, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, sessions: sessions, log: log}
}

// Login verifica credenciales y ata la identidad a una sesión nueva. Cualquier fallo de credenciales es el mismo 401.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "username y password son requeridos"})
	}

	identity, err := h.uc.Verify(c.UserContext(), in.Username, in.Password)
	if err != nil {
		// Usuario inexistente y password incorrecto responden igual para no revelar qué usernames existen.
		if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			h.log.Info().Str("username", in.Username).Str("reason", err.Error()).Msg("login rechazado")
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
		}
		h.log.Error().Err(err).Msg("verificar credenciales")
		return internalError(c)
	}

	if err := h.sessions.Bind(c, identity); err != nil {
		h.log.Error().Err(err).Int64("user_id", identity.ID).Msg("guardar sesión")
		return internalError(c)
	}
	h.log.Info().Int64("user_id", identity.ID).Str("role", identity.Role).Msg("login correcto")
	return c.JSON(dto.IdentityResponse{User: *identity})
}

// Logout destruye la sesión; con sesión anónima también responde 200.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Unbind(c); err != nil {
		h.log.Error().Err(err).Msg("destruir sesión")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "SESSION_TEARDOWN", Message: "no se pudo cerrar la sesión"})
	}
	return c.JSON(dto.MessageResponse{Message: "sesión cerrada"})
}

// Me devuelve la identidad de la sesión (la ruta pasa antes por RequireAuthenticated).
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	identity := GetIdentity(c)
	if identity == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
	}
	return c.JSON(dto.IdentityResponse{User: *identity})
}
