package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

func TestModuleRepository_ListByCourseOrdersByOrderThenCreation(t *testing.T) {
	db := newTestDB(t)
	repo := NewModuleRepository(db)
	c := seedCourse(t, db, "course", 0)

	base := time.Now().UTC().Add(-time.Minute)
	mk := func(title string, order int, offset time.Duration) {
		m := &domain.Module{ID: uuid.New(), CourseID: c.ID, Title: title, Order: order, CreatedAt: base.Add(offset)}
		require.NoError(t, db.Create(m).Error)
	}
	mk("third", 2, 0)
	mk("second", 1, 2*time.Second)
	mk("first", 1, time.Second)
	seedModule(t, db, uuid.New(), 0)

	modules, total, err := repo.ListByCourse(context.Background(), c.ID, ports.PageRequest{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, modules, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{modules[0].Title, modules[1].Title, modules[2].Title})
}

func TestModuleRepository_CountByCourses(t *testing.T) {
	db := newTestDB(t)
	repo := NewModuleRepository(db)
	a := seedCourse(t, db, "a", 0)
	b := seedCourse(t, db, "b", 0)
	seedModule(t, db, a.ID, 1)
	seedModule(t, db, a.ID, 2)

	counts, err := repo.CountByCourses(context.Background(), []uuid.UUID{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[a.ID])
	_, ok := counts[b.ID]
	assert.False(t, ok)

	n, err := repo.CountByCourse(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestModuleRepository_ApplyOrderIgnoresForeignModules(t *testing.T) {
	db := newTestDB(t)
	repo := NewModuleRepository(db)
	c := seedCourse(t, db, "mine", 0)
	other := seedCourse(t, db, "theirs", 0)
	m1 := seedModule(t, db, c.ID, 1)
	foreign := seedModule(t, db, other.ID, 1)

	applied, err := repo.ApplyOrder(context.Background(), c.ID, []domain.ModuleOrder{
		{ID: m1.ID, Order: 7},
		{ID: foreign.ID, Order: 9},
		{ID: uuid.New(), Order: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.ModuleOrder{{ID: m1.ID, Order: 7}}, applied)

	stored, err := repo.FindByID(context.Background(), m1.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, stored.Order)

	stored, err = repo.FindByID(context.Background(), foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Order)
}

func TestModuleRepository_DeleteRemovesProgress(t *testing.T) {
	db := newTestDB(t)
	repo := NewModuleRepository(db)
	u := seedUser(t, db, "ivy", 0)
	m := seedModule(t, db, seedCourse(t, db, "c", 0).ID, 1)
	markCompleted(t, NewProgressRepository(db), u.ID, m.ID)

	require.NoError(t, repo.Delete(context.Background(), m.ID))

	var n int64
	db.Model(&domain.Progress{}).Count(&n)
	assert.Zero(t, n)
	assert.ErrorIs(t, repo.Delete(context.Background(), m.ID), domain.ErrModuleNotFound)
}
