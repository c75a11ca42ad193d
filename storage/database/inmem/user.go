package inmemdb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/student"
	"github.com/trezcool/campus/core/teacher"
	"github.com/trezcool/campus/core/user"
)

type userRepository struct {
	db *userTable
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

// query returns the users ordered by id; callers hold the lock.
func (repo *userRepository) query() []user.User {
	users := make([]user.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// insert mimics the unique index on users.email; callers hold the write lock.
func (repo *userRepository) insert(usr user.User) (user.User, error) {
	for _, u := range repo.db.table {
		if u.Email == usr.Email {
			return user.User{}, core.NewConflictError(errors.New("UNIQUE constraint failed: users.email"))
		}
	}
	repo.db.pkCount++
	usr.ID = repo.db.pkCount
	usr.CreatedAt = user.NowFunc().UTC()
	repo.db.table[usr.ID] = &usr
	return usr, nil
}

func (repo *userRepository) CreateUser(_ context.Context, usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	return repo.insert(usr)
}

func (repo *userRepository) createAccount(usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	pid := repo.db.profiles + 1
	usr.ProfileID = &pid
	usr, err := repo.insert(usr)
	if err != nil {
		return user.User{}, err
	}
	repo.db.profiles = pid
	return usr, nil
}

func (repo *userRepository) CreateStudentAccount(_ context.Context, usr user.User, _ student.Student) (user.User, error) {
	return repo.createAccount(usr)
}

func (repo *userRepository) CreateTeacherAccount(_ context.Context, usr user.User, _ teacher.Teacher) (user.User, error) {
	return repo.createAccount(usr)
}

func (repo *userRepository) QueryAllUsers(context.Context) ([]user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.query(), nil
}

func (repo *userRepository) GetUserByID(_ context.Context, id int64) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[id]; ok {
		return *usr, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByEmail(_ context.Context, email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, usr := range repo.query() {
		if usr.Email == email {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) SetUserPassword(_ context.Context, id int64, hash []byte) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[id]
	if !ok {
		return user.ErrNotFound
	}
	usr.PasswordHash = hash
	return nil
}
