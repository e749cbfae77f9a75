package usecase

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/jhoicas/Investigacion-api/internal/application/auth"
	"github.com/jhoicas/Investigacion-api/internal/application/dto"
	"github.com/jhoicas/Investigacion-api/internal/domain"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/internal/domain/repository"
	"github.com/jhoicas/Investigacion-api/pkg/password"
)

const (
	minPasswordLen = 8
	// bcrypt rechaza entradas de más de 72 bytes.
	maxPasswordBytes = 72
)

// UserUseCase aplica reglas de negocio para la administración de usuarios.
type UserUseCase struct {
	repo   repository.UserRepository
	hasher *password.Hasher
	policy auth.UsernamePolicy
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, hasher *password.Hasher, policy auth.UsernamePolicy) *UserUseCase {
	return &UserUseCase{repo: repo, hasher: hasher, policy: policy}
}

// CreateUser valida, hashea el password con bcrypt y persiste.
// Devuelve ErrUsernameAlreadyExists si el username ya existe y ErrInvalidInput (envuelto) si la entrada no es válida.
func (uc *UserUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := uc.policy.Normalize(strings.TrimSpace(in.Username))
	if username == "" {
		return nil, fmt.Errorf("%w: username requerido", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password debe tener al menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password admite como máximo %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
		}
	}

	existing, err := uc.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameAlreadyExists
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = username
	}
	role := strings.TrimSpace(in.Role)
	if role == "" {
		role = entity.RoleInvestigador
	}
	now := time.Now().UTC()
	user := &entity.User{
		Username:     username,
		PasswordHash: hash,
		Name:         name,
		Email:        in.Email,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// List lista usuarios paginados.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, entityToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// GetUser devuelve un usuario por ID o ErrUserNotFound.
func (uc *UserUseCase) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return entityToUserResponse(user), nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
