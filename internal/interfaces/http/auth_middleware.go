package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Investigacion-api/internal/application/dto"
	"github.com/jhoicas/Investigacion-api/internal/domain"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/pkg/logger"
)

// LocalIdentity clave de c.Locals donde los guards dejan la identidad de la sesión.
const LocalIdentity = "identity"

// identityReader es lo mínimo que necesitan los guards; lo implementa *SessionManager.
type identityReader interface {
	CurrentIdentity(c *fiber.Ctx) (*entity.Identity, error)
}

// RequireAuthenticated deja pasar solo requests con identidad en la sesión.
//   - 401 UNAUTHORIZED → sesión anónima o expirada.
//   - 500 INTERNAL     → no se pudo leer el almacenamiento de sesiones.
func RequireAuthenticated(sessions identityReader, log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := sessions.CurrentIdentity(c)
		if err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("leer sesión")
			return internalError(c)
		}
		if identity == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: domain.ErrUnauthorized.Error()})
		}
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// RequirePrivileged deja pasar solo identidades con el rol indicado (por defecto admin).
// Anónimo y rol insuficiente responden igual: 403 FORBIDDEN.
func RequirePrivileged(sessions identityReader, log *logger.Logger, role string) fiber.Handler {
	if role == "" {
		role = entity.RoleAdmin
	}
	return func(c *fiber.Ctx) error {
		identity, err := sessions.CurrentIdentity(c)
		if err != nil {
			log.Error().Err(err).Str("path", c.Path()).Msg("leer sesión")
			return internalError(c)
		}
		if !identity.HasRole(role) {
			ev := log.Debug().Str("path", c.Path()).Str("required_role", role)
			if identity != nil {
				ev = ev.Int64("user_id", identity.ID).Str("role", identity.Role)
			}
			ev.Msg("acceso denegado")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: domain.ErrForbidden.Error()})
		}
		c.Locals(LocalIdentity, identity)
		return c.Next()
	}
}

// GetIdentity devuelve la identidad puesta por los guards (nil si la ruta no pasó por uno).
func GetIdentity(c *fiber.Ctx) *entity.Identity {
	identity, _ := c.Locals(LocalIdentity).(*entity.Identity)
	return identity
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
