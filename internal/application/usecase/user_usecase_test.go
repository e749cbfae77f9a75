package usecase_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Investigacion-api/internal/application/auth"
	"github.com/jhoicas/Investigacion-api/internal/application/dto"
	"github.com/jhoicas/Investigacion-api/internal/application/usecase"
	"github.com/jhoicas/Investigacion-api/internal/domain"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/internal/infrastructure/memory"
	"github.com/jhoicas/Investigacion-api/pkg/password"
)

func newUserUC(caseSensitive bool) (*usecase.UserUseCase, *memory.UserRepo, *password.Hasher) {
	repo := memory.NewUserRepository()
	hasher := password.NewHasher(bcrypt.MinCost)
	return usecase.NewUserUseCase(repo, hasher, auth.UsernamePolicy{CaseSensitive: caseSensitive}), repo, hasher
}

func TestCreateUser_HasheaYAplicaDefaults(t *testing.T) {
	uc, repo, hasher := newUserUC(true)

	out, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Username: "jdoe", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, "jdoe", out.Username)
	assert.Equal(t, "jdoe", out.Name, "sin nombre se usa el username")
	assert.Equal(t, entity.RoleInvestigador, out.Role)

	stored, err := repo.FindByUsername(context.Background(), "jdoe")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "correct-horse", stored.PasswordHash)
	assert.NoError(t, hasher.Compare(stored.PasswordHash, "correct-horse"))
}

func TestCreateUser_Duplicado(t *testing.T) {
	uc, _, _ := newUserUC(true)
	in := dto.CreateUserRequest{Username: "jdoe", Password: "correct-horse"}

	_, err := uc.CreateUser(context.Background(), in)
	require.NoError(t, err)

	_, err = uc.CreateUser(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestCreateUser_DuplicadoSinDistinguirMayusculas(t *testing.T) {
	uc, _, _ := newUserUC(false)

	_, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Username: "JDoe", Password: "correct-horse"})
	require.NoError(t, err)

	_, err = uc.CreateUser(context.Background(), dto.CreateUserRequest{Username: "jdoe", Password: "correct-horse"})
	assert.ErrorIs(t, err, domain.ErrUsernameAlreadyExists)
}

func TestCreateUser_EntradaInvalida(t *testing.T) {
	uc, _, _ := newUserUC(true)

	cases := []dto.CreateUserRequest{
		{Username: "  ", Password: "correct-horse"},
		{Username: "jdoe", Password: "corto"},
		{Username: "jdoe", Password: strings.Repeat("x", 73)},
		{Username: "jdoe", Password: "correct-horse", Email: "no-es-email"},
	}
	for _, in := range cases {
		_, err := uc.CreateUser(context.Background(), in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada: %+v", in)
	}
}

func TestList_Paginado(t *testing.T) {
	uc, _, _ := newUserUC(true)
	for _, name := range []string{"a-user", "b-user", "c-user"} {
		_, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Username: name, Password: "correct-horse"})
		require.NoError(t, err)
	}

	out, err := uc.List(context.Background(), dto.PageRequest{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "b-user", out.Items[0].Username)
	assert.Equal(t, "c-user", out.Items[1].Username)
	assert.Equal(t, dto.PageResponse{Limit: 2, Offset: 1, Total: 3}, out.Page)

	out, err = uc.List(context.Background(), dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 20, out.Page.Limit, "limit por defecto")
}

// 72 bytes es el máximo que bcrypt acepta; justo en el límite se crea.
func TestCreateUser_PasswordEnElLimite(t *testing.T) {
	uc, _, _ := newUserUC(true)

	_, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Username: "jdoe", Password: strings.Repeat("x", 72)})
	require.NoError(t, err)

	_, err = uc.CreateUser(context.Background(), dto.CreateUserRequest{Username: "otro", Password: strings.Repeat("x", 100)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetUser(t *testing.T) {
	uc, _, _ := newUserUC(true)
	created, err := uc.CreateUser(context.Background(), dto.CreateUserRequest{Username: "jdoe", Password: "correct-horse", Role: entity.RoleAsistente})
	require.NoError(t, err)

	out, err := uc.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", out.Username)
	assert.Equal(t, entity.RoleAsistente, out.Role)

	_, err = uc.GetUser(context.Background(), created.ID+100)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
