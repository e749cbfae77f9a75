package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Investigacion-api/internal/application/dto"
	"github.com/jhoicas/Investigacion-api/pkg/logger"
)

// RequestLogger registra método, ruta, status y latencia de cada request.
// Si algún guard dejó identidad en locals, se incluye el user_id.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev = ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start))
		if identity := GetIdentity(c); identity != nil {
			ev = ev.Int64("user_id", identity.ID)
		}
		ev.Msg("request")
		return err
	}
}

// ErrorHandler responde con dto.ErrorResponse los errores que escapan de los handlers
// (404 de Fiber, panics recuperados, etc.) sin exponer el detalle interno.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
		}
		log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
		return internalError(c)
	}
}
