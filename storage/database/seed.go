package database

import (
	"context"
	"database/sql"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
	appfs "github.com/trezcool/campus/fs"
)

const seedFile = "seed.toml"

type (
	seedData struct {
		AvailableCourses []seedCourse  `toml:"available_courses"`
		Courses          []seedCourse  `toml:"courses"`
		Accounts         []seedAccount `toml:"accounts"`
	}

	seedCourse struct {
		Code        string `toml:"code"`
		Name        string `toml:"name"`
		Description string `toml:"description"`
		Credits     int64  `toml:"credits"`
		Category    string `toml:"category"`
	}

	seedAccount struct {
		Email          string `toml:"email"`
		Password       string `toml:"password"`
		Name           string `toml:"name"`
		Role           string `toml:"role"`
		FirstName      string `toml:"first_name"`
		LastName       string `toml:"last_name"`
		Matricule      string `toml:"matricule"`
		Department     string `toml:"department"`
		Specialization string `toml:"specialization"`
		Office         string `toml:"office"`
	}
)

func loadSeed(fsys fs.FS) (*seedData, error) {
	raw, err := fs.ReadFile(fsys, seedFile)
	if err != nil {
		return nil, errors.Wrap(err, "reading seed file")
	}
	var data seedData
	if err = toml.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrap(err, "decoding seed file")
	}
	return &data, nil
}

// Seed inserts the embedded reference rows that are missing, keyed by their natural columns.
// Existing rows are never overwritten.
func Seed(ctx context.Context, exec core.DBExecutor) error {
	data, err := loadSeed(appfs.FS)
	if err != nil {
		return err
	}

	for _, c := range data.AvailableCourses {
		if _, err = exec.Exec(
			ctx,
			`INSERT INTO available_courses (code, name, description, credits, category)
			VALUES (?, ?, ?, ?, ?) ON CONFLICT(code) DO NOTHING`,
			c.Code, c.Name, core.NullString(c.Description), c.Credits, core.NullString(c.Category),
		); err != nil {
			return errors.Wrapf(err, "seeding available course %s", c.Code)
		}
	}

	for _, c := range data.Courses {
		if _, err = exec.Exec(
			ctx,
			`INSERT INTO courses (code, name, description, credits)
			VALUES (?, ?, ?, ?) ON CONFLICT(code) DO NOTHING`,
			c.Code, c.Name, core.NullString(c.Description), c.Credits,
		); err != nil {
			return errors.Wrapf(err, "seeding course %s", c.Code)
		}
	}

	for _, acc := range data.Accounts {
		if err = seedAccountRows(ctx, exec, acc); err != nil {
			return errors.Wrapf(err, "seeding account %s", acc.Email)
		}
	}
	return nil
}

func seedAccountRows(ctx context.Context, exec core.DBExecutor, acc seedAccount) error {
	var count int
	if err := exec.Get(ctx, &count, `SELECT COUNT(*) FROM users WHERE email = ?`, acc.Email); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var profileID *int64
	switch acc.Role {
	case user.RoleStudent:
		if _, err := exec.Exec(
			ctx,
			`INSERT INTO students (first_name, last_name, email, matricule)
			VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
			acc.FirstName, acc.LastName, acc.Email, acc.Matricule,
		); err != nil {
			return err
		}
		id, err := lookupID(ctx, exec, `SELECT id FROM students WHERE email = ?`, acc.Email)
		if err != nil {
			return err
		}
		profileID = id
	case user.RoleTeacher:
		if _, err := exec.Exec(
			ctx,
			`INSERT INTO teachers (first_name, last_name, email, department, specialization, office)
			VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT(email) DO NOTHING`,
			acc.FirstName, acc.LastName, acc.Email,
			core.NullString(acc.Department), core.NullString(acc.Specialization), core.NullString(acc.Office),
		); err != nil {
			return err
		}
		id, err := lookupID(ctx, exec, `SELECT id FROM teachers WHERE email = ?`, acc.Email)
		if err != nil {
			return err
		}
		profileID = id
	}

	usr := user.User{Email: acc.Email, Name: acc.Name, Role: acc.Role, ProfileID: profileID}
	if err := usr.SetPassword(acc.Password); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	_, err := exec.Exec(
		ctx,
		`INSERT INTO users (email, password, name, role, profile_id)
		VALUES (?, ?, ?, ?, ?) ON CONFLICT(email) DO NOTHING`,
		usr.Email, string(usr.PasswordHash), usr.Name, usr.Role, usr.ProfileID,
	)
	return err
}

func lookupID(ctx context.Context, exec core.DBExecutor, query string, args ...interface{}) (*int64, error) {
	var id int64
	if err := exec.Get(ctx, &id, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &id, nil
}
