package postgres

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnhub/course-marketplace/internal/core/domain"
)

// newTestDB opens a private in-memory sqlite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := Open(context.Background(), Config{
		Driver:  DriverSQLite,
		DSN:     fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		MaxOpen: 1,
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func seedUser(t *testing.T, db *gorm.DB, username string, balance int64) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		Balance:      balance,
		IsActive:     true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedCourse(t *testing.T, db *gorm.DB, title string, price int64) *domain.Course {
	t.Helper()
	c := &domain.Course{ID: uuid.New(), Title: title, Price: price, Topics: []string{"go"}}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedModule(t *testing.T, db *gorm.DB, courseID uuid.UUID, order int) *domain.Module {
	t.Helper()
	m := &domain.Module{ID: uuid.New(), CourseID: courseID, Title: fmt.Sprintf("m%d", order), Order: order}
	require.NoError(t, db.Create(m).Error)
	return m
}
