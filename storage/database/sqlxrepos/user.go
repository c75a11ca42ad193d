package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/student"
	"github.com/trezcool/campus/core/teacher"
	"github.com/trezcool/campus/core/user"
)

const userColumns = `id, email, name, role, profile_id, password, created_at`

type userRepository struct {
	db core.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db core.DB) *userRepository {
	return &userRepository{db: db}
}

func insertUser(ctx context.Context, exec core.DBExecutor, usr user.User) (user.User, error) {
	res, err := exec.Exec(
		ctx,
		`INSERT INTO users (email, password, name, role, profile_id) VALUES (?, ?, ?, ?, ?)`,
		usr.Email, string(usr.PasswordHash), usr.Name, usr.Role, usr.ProfileID,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	var created user.User
	err = exec.Get(ctx, &created, `SELECT `+userColumns+` FROM users WHERE id = ?`, res.LastInsertID)
	return created, trapNoRowsErr(err, user.ErrNotFound, "fetching created user")
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	return insertUser(ctx, repo.db, usr)
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	users := make([]user.User, 0)
	err := repo.db.Select(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`)
	return users, errors.Wrap(err, "selecting users")
}

func (repo userRepository) GetUserByID(ctx context.Context, id int64) (user.User, error) {
	var usr user.User
	err := repo.db.Get(ctx, &usr, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return usr, trapNoRowsErr(err, user.ErrNotFound, "getting user by id")
}

func (repo userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var usr user.User
	err := repo.db.Get(ctx, &usr, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return usr, trapNoRowsErr(err, user.ErrNotFound, "getting user by email")
}

func (repo userRepository) SetUserPassword(ctx context.Context, id int64, hash []byte) error {
	res, err := repo.db.Exec(ctx, `UPDATE users SET password = ? WHERE id = ?`, string(hash), id)
	if err != nil {
		return errors.Wrap(err, "updating password")
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo userRepository) CreateStudentAccount(ctx context.Context, usr user.User, stu student.Student) (created user.User, err error) {
	err = repo.db.Transact(ctx, func(tx core.DBExecutor) error {
		s, err := insertStudent(ctx, tx, stu)
		if err != nil {
			return err
		}
		usr.ProfileID = &s.ID
		created, err = insertUser(ctx, tx, usr)
		return err
	})
	return created, err
}

func (repo userRepository) CreateTeacherAccount(ctx context.Context, usr user.User, tch teacher.Teacher) (created user.User, err error) {
	err = repo.db.Transact(ctx, func(tx core.DBExecutor) error {
		id, err := insertTeacher(ctx, tx, tch)
		if err != nil {
			return err
		}
		usr.ProfileID = &id
		created, err = insertUser(ctx, tx, usr)
		return err
	})
	return created, err
}
