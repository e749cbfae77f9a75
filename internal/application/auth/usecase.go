package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Investigacion-api/internal/domain"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/internal/domain/repository"
	"github.com/jhoicas/Investigacion-api/pkg/logger"
	"github.com/jhoicas/Investigacion-api/pkg/password"
)

// AuthUseCase verifica credenciales contra el repositorio de usuarios.
// No guarda estado: la identidad resultante la conserva la sesión.
type AuthUseCase struct {
	userRepo repository.UserRepository
	hasher   *password.Hasher
	policy   UsernamePolicy
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, hasher *password.Hasher, policy UsernamePolicy, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, hasher: hasher, policy: policy, log: log}
}

// Verify comprueba username/password y devuelve la identidad saneada.
//
// Errores:
//   - domain.ErrUserNotFound       → no hay usuario con ese username.
//   - domain.ErrInvalidCredentials → el hash no coincide.
//   - cualquier otro               → fallo de infraestructura (repositorio).
//
// El handler HTTP colapsa los dos primeros en el mismo 401.
func (uc *AuthUseCase) Verify(ctx context.Context, username, plain string) (*entity.Identity, error) {
	user, err := uc.userRepo.FindByUsername(ctx, uc.policy.Normalize(username))
	if err != nil {
		return nil, fmt.Errorf("buscar usuario: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := uc.hasher.Compare(user.PasswordHash, plain); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return nil, domain.ErrInvalidCredentials
		}
		if errors.Is(err, password.ErrUnknownFormat) {
			uc.log.Warn().Int64("user_id", user.ID).Msg("hash de contraseña con formato desconocido")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("comparar contraseña: %w", err)
	}

	if uc.hasher.NeedsRehash(user.PasswordHash) {
		uc.upgradeHash(ctx, user.ID, plain)
	}
	return entity.IdentityFromUser(user), nil
}

// upgradeHash reemplaza un digest legado por bcrypt. Si falla, el login sigue siendo válido.
func (uc *AuthUseCase) upgradeHash(ctx context.Context, userID int64, plain string) {
	hash, err := uc.hasher.Hash(plain)
	if err == nil {
		err = uc.userRepo.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		uc.log.Warn().Err(err).Int64("user_id", userID).Msg("no se pudo migrar el hash legado a bcrypt")
		return
	}
	uc.log.Info().Int64("user_id", userID).Msg("hash legado migrado a bcrypt")
}
