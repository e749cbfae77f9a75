// admin agrupa tareas de bootstrap de la base: aplicar migraciones y crear el primer administrador.
//
// Uso:
//
//	go run ./cmd/admin migrate
//	go run ./cmd/admin seed-admin --username admin --password '...' [--name ...] [--email ...]
//
// La conexión se toma de la misma configuración que la API (DATABASE_URL, DB_HOST, ...).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Investigacion-api/internal/application/auth"
	"github.com/jhoicas/Investigacion-api/internal/application/dto"
	"github.com/jhoicas/Investigacion-api/internal/application/usecase"
	"github.com/jhoicas/Investigacion-api/internal/domain"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Investigacion-api/pkg/config"
	"github.com/jhoicas/Investigacion-api/pkg/logger"
	"github.com/jhoicas/Investigacion-api/pkg/password"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Tareas de bootstrap de la base de datos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedAdminCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()
			return postgres.Migrate(cmd.Context(), pool, log)
		},
	}
}

func newSeedAdminCmd() *cobra.Command {
	var in dto.CreateUserRequest

	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crea el usuario administrador inicial (no hace nada si ya existe)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := loadEnv()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			pool, err := postgres.NewPool(ctx, cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()
			if err := postgres.Migrate(ctx, pool, log); err != nil {
				return err
			}

			uc := usecase.NewUserUseCase(
				postgres.NewUserRepository(pool),
				password.NewHasher(cfg.Auth.BcryptCost),
				auth.UsernamePolicy{CaseSensitive: cfg.Auth.CaseSensitiveUsernames},
			)
			return seedAdmin(ctx, uc, in, log)
		},
	}

	cmd.Flags().StringVarP(&in.Username, "username", "u", "admin", "username del administrador")
	cmd.Flags().StringVarP(&in.Password, "password", "p", "", "password (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.Name, "name", "Administrador", "nombre visible")
	cmd.Flags().StringVar(&in.Email, "email", "", "email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// seedAdmin crea el admin; un username existente no es error para poder re-ejecutar el seed.
func seedAdmin(ctx context.Context, uc *usecase.UserUseCase, in dto.CreateUserRequest, log *logger.Logger) error {
	in.Role = entity.RoleAdmin
	user, err := uc.CreateUser(ctx, in)
	if errors.Is(err, domain.ErrUsernameAlreadyExists) {
		log.Info().Str("username", in.Username).Msg("el administrador ya existe, nada que hacer")
		return nil
	}
	if err != nil {
		return fmt.Errorf("crear administrador: %w", err)
	}
	log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("administrador creado")
	return nil
}

func loadEnv() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	return cfg, log, nil
}
