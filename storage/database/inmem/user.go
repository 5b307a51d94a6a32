package inmem

import (
	"context"
	"time"

	"github.com/dmecc/volunteerhub/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil)

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, u := range repo.db.users {
		if u.Email == usr.Email {
			return user.User{}, user.ErrUserExists
		}
	}

	now := time.Now().UTC()
	usr.ID = repo.db.nextPK()
	usr.CreatedAt = now
	usr.UpdatedAt = now
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id int) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.users[id]; ok {
		u := *usr
		u.Scopes = repo.scopes(id)
		return u, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.db.users {
		if usr.Email == email {
			u := *usr
			u.Scopes = repo.scopes(u.ID)
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.users[usr.ID]; !ok {
		return user.User{}, user.ErrNotFound
	}
	usr.UpdatedAt = time.Now().UTC()
	repo.db.users[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) UserExists(_ context.Context, id int) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	_, ok := repo.db.users[id]
	return ok, nil
}

func (repo *userRepository) CreatePermission(_ context.Context, p user.Permission) (user.Permission, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.permissions[p.Name]; ok {
		return user.Permission{}, user.ErrPermissionExists
	}
	repo.db.permissions[p.Name] = &p
	return p, nil
}

func (repo *userRepository) GetPermission(_ context.Context, name string) (user.Permission, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if p, ok := repo.db.permissions[name]; ok {
		return *p, nil
	}
	return user.Permission{}, user.ErrNotFound
}

func (repo *userRepository) LinkUserPermission(_ context.Context, link user.UserPermission) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, l := range repo.db.userPermissions {
		if l == link {
			return user.ErrLinkExists
		}
	}
	repo.db.userPermissions = append(repo.db.userPermissions, link)
	return nil
}

// scopes must be called with the lock held.
func (repo *userRepository) scopes(userID int) []string {
	var scopes []string
	for _, l := range repo.db.userPermissions {
		if l.UserID == userID {
			scopes = append(scopes, l.PermissionName)
		}
	}
	return scopes
}
