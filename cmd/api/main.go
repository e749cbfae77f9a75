package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Investigacion-api/internal/application/auth"
	"github.com/jhoicas/Investigacion-api/internal/application/usecase"
	"github.com/jhoicas/Investigacion-api/internal/infrastructure/postgres"
	sessredis "github.com/jhoicas/Investigacion-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/Investigacion-api/internal/interfaces/http"
	"github.com/jhoicas/Investigacion-api/pkg/config"
	"github.com/jhoicas/Investigacion-api/pkg/logger"
	"github.com/jhoicas/Investigacion-api/pkg/password"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("session_store", cfg.Session.Store).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Named("migrations")); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	// Sin storage explícito Fiber guarda las sesiones en memoria del proceso.
	var sessionStorage fiber.Storage
	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := sessredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		storage := sessredis.NewSessionStorage(client, cfg.Redis.KeyPrefix)
		defer storage.Close()
		sessionStorage = storage
	}
	sessions := httpRouter.NewSessionManager(httpRouter.NewSessionStore(cfg.Session, sessionStorage))

	userRepo := postgres.NewUserRepository(pool)
	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	policy := auth.UsernamePolicy{CaseSensitive: cfg.Auth.CaseSensitiveUsernames}
	authUC := auth.NewAuthUseCase(userRepo, hasher, policy, log.Named("auth"))
	userUC := usecase.NewUserUseCase(userRepo, hasher, policy)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler(log),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Investigación API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:   authUC,
		UserUC:   userUC,
		Sessions: sessions,
		Log:      log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
