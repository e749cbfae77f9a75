// Package memory implementa los puertos de persistencia en memoria, para tests y desarrollo local.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jhoicas/Investigacion-api/internal/domain"
	"github.com/jhoicas/Investigacion-api/internal/domain/entity"
	"github.com/jhoicas/Investigacion-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo guarda copias de los usuarios; Err, si no es nil, se devuelve en toda operación
// para simular una base caída.
type UserRepo struct {
	mu     sync.RWMutex
	byID   map[int64]entity.User
	nextID int64
	Err    error
}

// NewUserRepository crea el repositorio con los usuarios iniciales indicados.
func NewUserRepository(seed ...*entity.User) *UserRepo {
	r := &UserRepo{byID: make(map[int64]entity.User)}
	for _, u := range seed {
		_ = r.Create(context.Background(), u)
	}
	return r
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	for _, u := range r.byID {
		if u.Username == user.Username {
			return domain.ErrUsernameAlreadyExists
		}
	}
	r.nextID++
	user.ID = r.nextID
	r.byID[user.ID] = *user
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, u := range r.byID {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	r.byID[id] = u
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	ids := make([]int64, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var list []*entity.User
	for i := offset; i < len(ids) && len(list) < limit; i++ {
		u := r.byID[ids[i]]
		list = append(list, &u)
	}
	return list, nil
}

func (r *UserRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return 0, r.Err
	}
	return len(r.byID), nil
}
