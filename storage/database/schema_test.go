package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core/user"
	appfs "github.com/trezcool/campus/fs"
)

func TestEnsureSchema_seeds(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	var codes []string
	require.NoError(t, m.Select(ctx, &codes, `SELECT code FROM courses ORDER BY code`))
	assert.Equal(t, []string{"ALGO101", "ARCH301", "BUREAU101", "ELEC201", "LANG101"}, codes)

	var available int
	require.NoError(t, m.Get(ctx, &available, `SELECT COUNT(*) FROM available_courses`))
	assert.Equal(t, 7, available)

	var users []user.User
	require.NoError(t, m.Select(ctx, &users, `SELECT id, email, name, role, profile_id, password, created_at FROM users ORDER BY id`))
	require.Len(t, users, 3)

	admin, stu, tch := users[0], users[1], users[2]
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.Equal(t, user.RoleAdmin, admin.Role)
	assert.Nil(t, admin.ProfileID)
	assert.NoError(t, admin.CheckPassword("admin123"))

	var studentID, teacherID int64
	require.NoError(t, m.Get(ctx, &studentID, `SELECT id FROM students WHERE matricule = 'STU001'`))
	require.NoError(t, m.Get(ctx, &teacherID, `SELECT id FROM teachers WHERE email = 'teacher@example.com'`))
	require.NotNil(t, stu.ProfileID)
	require.NotNil(t, tch.ProfileID)
	assert.Equal(t, studentID, *stu.ProfileID)
	assert.Equal(t, teacherID, *tch.ProfileID)
	assert.NoError(t, stu.CheckPassword("password123"))
}

func TestEnsureSchema_idempotent(t *testing.T) {
	m := newTestManager(t)
	ctx := context.Background()

	_, err := m.Exec(ctx, `UPDATE courses SET name = 'Renamed' WHERE code = 'ALGO101'`)
	require.NoError(t, err)
	_, err = m.Exec(ctx, `UPDATE users SET name = 'Boss' WHERE email = 'admin@example.com'`)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, EnsureSchema(ctx, m, true))
	}

	counts := map[string]int{"courses": 5, "available_courses": 7, "users": 3, "students": 1, "teachers": 1}
	for table, want := range counts {
		var n int
		require.NoError(t, m.Get(ctx, &n, `SELECT COUNT(*) FROM `+table))
		assert.Equal(t, want, n, table)
	}

	var name string
	require.NoError(t, m.Get(ctx, &name, `SELECT name FROM courses WHERE code = 'ALGO101'`))
	assert.Equal(t, "Renamed", name, "seeding never overwrites")
	require.NoError(t, m.Get(ctx, &name, `SELECT name FROM users WHERE email = 'admin@example.com'`))
	assert.Equal(t, "Boss", name)
}

func TestEnsureSchema_noSeed(t *testing.T) {
	m := newTestManager(t)
	m.conf.Seed = false
	ctx := context.Background()

	var n int
	require.NoError(t, m.Get(ctx, &n, `SELECT COUNT(*) FROM courses`))
	assert.Equal(t, 0, n)
}

func TestLoadSeed(t *testing.T) {
	data, err := loadSeed(appfs.FS)
	require.NoError(t, err)
	assert.Len(t, data.AvailableCourses, 7)
	assert.Len(t, data.Courses, 5)
	require.Len(t, data.Accounts, 3)
	assert.Equal(t, "STU001", data.Accounts[1].Matricule)
	assert.Equal(t, "Room 101", data.Accounts[2].Office)
}
