package http_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Investigacion-api/internal/application/auth"
	"github.com/jhoicas/Investigacion-api/internal/application/usecase"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Investigacion-api/internal/interfaces/http"
	"github.com/jhoicas/Investigacion-api/pkg/config"
	"github.com/jhoicas/Investigacion-api/pkg/logger"
	"github.com/jhoicas/Investigacion-api/pkg/password"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const testCookieName = "sid"

var testSessionConfig = config.SessionConfig{
	Store:      config.SessionStoreMemory,
	CookieName: testCookieName,
	Expiration: 30,
	SameSite:   "Lax",
}

// testEnv agrupa la app Fiber y el repositorio en memoria detrás de ella.
type testEnv struct {
	app  *fiber.App
	repo *memory.UserRepo
}

// newTestEnv arma la API completa (router real) con usuarios jdoe/investigador y admin/admin.
// storage nil usa el almacenamiento en memoria de Fiber.
func newTestEnv(t *testing.T, storage fiber.Storage) *testEnv {
	t.Helper()
	hasher := password.NewHasher(bcrypt.MinCost)
	mk := func(username, plain, role string) *entity.User {
		hash, err := hasher.Hash(plain)
		require.NoError(t, err)
		return &entity.User{Username: username, PasswordHash: hash, Name: username + " name", Email: username + "@example.org", Role: role}
	}
	repo := memory.NewUserRepository(
		mk("jdoe", "correct", entity.RoleInvestigador),
		mk("admin", "admin-pass", entity.RoleAdmin),
	)

	log := logger.Nop()
	policy := auth.UsernamePolicy{CaseSensitive: true}
	sessions := apphttp.NewSessionManager(apphttp.NewSessionStore(testSessionConfig, storage))

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:   auth.NewAuthUseCase(repo, hasher, policy, log),
		UserUC:   usecase.NewUserUseCase(repo, hasher, policy),
		Sessions: sessions,
		Log:      log,
	})
	return &testEnv{app: app, repo: repo}
}

// do lanza la petición con las cookies dadas y devuelve la respuesta.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies ...*http.Cookie) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login hace POST /api/auth/login y devuelve la respuesta y la cookie de sesión (nil si no hubo).
func (e *testEnv) login(t *testing.T, username, plain string, cookies ...*http.Cookie) (*http.Response, *http.Cookie) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": username, "password": plain}, cookies...)
	return resp, sessionCookie(resp)
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == testCookieName {
			return c
		}
	}
	return nil
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

// failingStorage simula un backend de sesiones caído en lecturas y/o borrados.
type failingStorage struct {
	data    map[string][]byte
	failGet bool
	failDel bool
}

func newFailingStorage() *failingStorage {
	return &failingStorage{data: make(map[string][]byte)}
}

var errStorageDown = errors.New("storage caído")

func (s *failingStorage) Get(key string) ([]byte, error) {
	if s.failGet {
		return nil, errStorageDown
	}
	return s.data[key], nil
}

func (s *failingStorage) Set(key string, val []byte, _ time.Duration) error {
	s.data[key] = append([]byte(nil), val...)
	return nil
}

func (s *failingStorage) Delete(key string) error {
	if s.failDel {
		return errStorageDown
	}
	delete(s.data, key)
	return nil
}

func (s *failingStorage) Reset() error {
	s.data = make(map[string][]byte)
	return nil
}

func (s *failingStorage) Close() error { return nil }
