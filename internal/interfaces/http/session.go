package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/jhoicas/Investigacion-api/internal/domain"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/pkg/config"
)

// sessionIdentityKey es la única clave que se escribe en la sesión.
const sessionIdentityKey = "identity"

// NewSessionStore crea el store de sesiones de Fiber. storage nil usa el almacenamiento en memoria de Fiber.
func NewSessionStore(cfg config.SessionConfig, storage fiber.Storage) *session.Store {
	store := session.New(session.Config{
		Expiration:     cfg.ExpirationDuration(),
		Storage:        storage,
		KeyLookup:      "cookie:" + cfg.CookieName,
		CookiePath:     "/",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: cfg.SameSite,
		KeyGenerator:   uuid.NewString,
	})
	// La identidad viaja serializada con gob dentro de la sesión.
	store.RegisterType(entity.Identity{})
	return store
}

// SessionManager ata la identidad autenticada a la sesión del request.
// Estados: anónima (sin identidad) y autenticada (una identidad).
type SessionManager struct {
	store *session.Store
}

// NewSessionManager construye el manager sobre un store inyectado.
func NewSessionManager(store *session.Store) *SessionManager {
	return &SessionManager{store: store}
}

// Bind guarda la identidad en la sesión y emite la cookie. Un login sobre una sesión ya
// existente genera un id nuevo y reemplaza lo que hubiera, no lo mezcla.
func (m *SessionManager) Bind(c *fiber.Ctx, identity *entity.Identity) error {
	if identity == nil {
		return fmt.Errorf("%w: identidad nil", domain.ErrInvalidInput)
	}
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}
	// Siempre id nuevo: tampoco se acepta un id que el cliente traiga de antes.
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("%w: regenerar sesión: %v", domain.ErrSessionUnavailable, err)
	}
	for _, k := range sess.Keys() {
		sess.Delete(k)
	}
	sess.Set(sessionIdentityKey, *identity)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("%w: guardar sesión: %v", domain.ErrSessionUnavailable, err)
	}
	return nil
}

// Unbind destruye la sesión en el storage y expira la cookie del cliente.
func (m *SessionManager) Unbind(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionTeardown, err)
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrSessionTeardown, err)
	}
	return nil
}

// CurrentIdentity devuelve la identidad de la sesión, o nil si es anónima (o expiró).
// Solo lee: no guarda la sesión ni emite cookie.
func (m *SessionManager) CurrentIdentity(c *fiber.Ctx) (*entity.Identity, error) {
	sess, err := m.store.Get(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSessionUnavailable, err)
	}
	identity, ok := sess.Get(sessionIdentityKey).(entity.Identity)
	if !ok {
		return nil, nil
	}
	return &identity, nil
}
