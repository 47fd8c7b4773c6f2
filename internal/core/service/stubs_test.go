package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

// add stores u directly, bypassing service validation.
func (r *stubUserRepo) add(u *domain.User) *domain.User {
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = cloneUser(u)
	return u
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if u.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	r.add(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByIdentifier(_ context.Context, identifier string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == identifier || u.Email == strings.ToLower(identifier) {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UsernameTaken(_ context.Context, username string, excludeID int64) (bool, error) {
	for _, u := range r.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) EmailTaken(_ context.Context, email string, excludeID int64) (bool, error) {
	for _, u := range r.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	existing, ok := r.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	clone := cloneUser(user)
	clone.Balance = existing.Balance
	r.users[user.ID] = clone
	return nil
}

func (r *stubUserRepo) AdjustBalance(_ context.Context, id int64, delta int64) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.Balance+delta < 0 {
		return nil, domain.ErrInsufficientBalance
	}
	u.Balance += delta
	return cloneUser(u), nil
}

func (r *stubUserRepo) List(_ context.Context, page ports.PageRequest) ([]*domain.User, int64, error) {
	var matched []*domain.User
	for _, u := range r.users {
		if page.Query != "" && !strings.Contains(strings.ToLower(u.Username), strings.ToLower(page.Query)) {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return paginate(matched, page), int64(len(matched)), nil
}

type stubCourseRepo struct {
	courses map[uuid.UUID]*domain.Course
}

func newStubCourseRepo() *stubCourseRepo {
	return &stubCourseRepo{courses: make(map[uuid.UUID]*domain.Course)}
}

func (r *stubCourseRepo) add(price int64) *domain.Course {
	c := &domain.Course{ID: uuid.New(), Title: "Course", Price: price, CreatedAt: time.Now()}
	clone := *c
	r.courses[c.ID] = &clone
	return c
}

func (r *stubCourseRepo) Create(_ context.Context, c *domain.Course) error {
	clone := *c
	r.courses[c.ID] = &clone
	return nil
}

func (r *stubCourseRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCourseRepo) Update(_ context.Context, c *domain.Course) error {
	if _, ok := r.courses[c.ID]; !ok {
		return domain.ErrCourseNotFound
	}
	clone := *c
	r.courses[c.ID] = &clone
	return nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *stubCourseRepo) List(_ context.Context, page ports.PageRequest) ([]*domain.Course, int64, error) {
	var matched []*domain.Course
	for _, c := range r.courses {
		if page.Query != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(page.Query)) {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginate(matched, page), int64(len(matched)), nil
}

type stubModuleRepo struct {
	modules map[uuid.UUID]*domain.Module
}

func newStubModuleRepo() *stubModuleRepo {
	return &stubModuleRepo{modules: make(map[uuid.UUID]*domain.Module)}
}

func (r *stubModuleRepo) add(courseID uuid.UUID, order int) *domain.Module {
	m := &domain.Module{ID: uuid.New(), CourseID: courseID, Title: "Module", Order: order, CreatedAt: time.Now()}
	clone := *m
	r.modules[m.ID] = &clone
	return m
}

func (r *stubModuleRepo) Create(_ context.Context, m *domain.Module) error {
	clone := *m
	r.modules[m.ID] = &clone
	return nil
}

func (r *stubModuleRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Module, error) {
	m, ok := r.modules[id]
	if !ok {
		return nil, domain.ErrModuleNotFound
	}
	clone := *m
	return &clone, nil
}

func (r *stubModuleRepo) Update(_ context.Context, m *domain.Module) error {
	if _, ok := r.modules[m.ID]; !ok {
		return domain.ErrModuleNotFound
	}
	clone := *m
	r.modules[m.ID] = &clone
	return nil
}

func (r *stubModuleRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.modules[id]; !ok {
		return domain.ErrModuleNotFound
	}
	delete(r.modules, id)
	return nil
}

func (r *stubModuleRepo) ListByCourse(_ context.Context, courseID uuid.UUID, page ports.PageRequest) ([]*domain.Module, int64, error) {
	var matched []*domain.Module
	for _, m := range r.modules {
		if m.CourseID == courseID {
			clone := *m
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Order != matched[j].Order {
			return matched[i].Order < matched[j].Order
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return paginate(matched, page), int64(len(matched)), nil
}

func (r *stubModuleRepo) CountByCourse(_ context.Context, courseID uuid.UUID) (int64, error) {
	var n int64
	for _, m := range r.modules {
		if m.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (r *stubModuleRepo) CountByCourses(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64)
	for _, id := range courseIDs {
		n, _ := r.CountByCourse(ctx, id)
		if n > 0 {
			out[id] = n
		}
	}
	return out, nil
}

func (r *stubModuleRepo) ApplyOrder(_ context.Context, courseID uuid.UUID, orders []domain.ModuleOrder) ([]domain.ModuleOrder, error) {
	applied := make([]domain.ModuleOrder, 0, len(orders))
	for _, o := range orders {
		m, ok := r.modules[o.ID]
		if !ok || m.CourseID != courseID {
			continue
		}
		m.Order = o.Order
		applied = append(applied, o)
	}
	return applied, nil
}

type purchaseKey struct {
	userID   int64
	courseID uuid.UUID
}

// stubPurchaseRepo mirrors the unique (user, course) constraint and debits
// balances held by the shared stubUserRepo.
type stubPurchaseRepo struct {
	users     *stubUserRepo
	courses   *stubCourseRepo
	purchases map[purchaseKey]*domain.Purchase
	nextID    int64
	// hideExisting makes Exists report false, simulating a lost pre-check race.
	hideExisting bool
	debits       int
}

func newStubPurchaseRepo(users *stubUserRepo, courses *stubCourseRepo) *stubPurchaseRepo {
	return &stubPurchaseRepo{
		users:     users,
		courses:   courses,
		purchases: make(map[purchaseKey]*domain.Purchase),
	}
}

func (r *stubPurchaseRepo) Exists(_ context.Context, userID int64, courseID uuid.UUID) (bool, error) {
	if r.hideExisting {
		return false, nil
	}
	_, ok := r.purchases[purchaseKey{userID, courseID}]
	return ok, nil
}

func (r *stubPurchaseRepo) insert(p *domain.Purchase) error {
	key := purchaseKey{p.UserID, p.CourseID}
	if _, ok := r.purchases[key]; ok {
		return domain.ErrAlreadyPurchased
	}
	r.nextID++
	p.ID = r.nextID
	clone := *p
	r.purchases[key] = &clone
	return nil
}

func (r *stubPurchaseRepo) Create(_ context.Context, p *domain.Purchase) error {
	return r.insert(p)
}

func (r *stubPurchaseRepo) DebitAndCreate(_ context.Context, p *domain.Purchase, price int64) (int64, error) {
	u, ok := r.users.users[p.UserID]
	if !ok {
		return 0, domain.ErrUserNotFound
	}
	// Ownership is checked under the same lock before the balance.
	if _, owned := r.purchases[purchaseKey{p.UserID, p.CourseID}]; owned {
		return 0, domain.ErrAlreadyPurchased
	}
	if u.Balance < price {
		return 0, domain.ErrInsufficientBalance
	}
	if err := r.insert(p); err != nil {
		return 0, err
	}
	u.Balance -= price
	r.debits++
	return u.Balance, nil
}

func (r *stubPurchaseRepo) ListByUser(_ context.Context, userID int64, page ports.PageRequest) ([]*domain.Purchase, int64, error) {
	var matched []*domain.Purchase
	for _, p := range r.purchases {
		if p.UserID != userID {
			continue
		}
		clone := *p
		if c, ok := r.courses.courses[p.CourseID]; ok {
			cc := *c
			clone.Course = &cc
		}
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return paginate(matched, page), int64(len(matched)), nil
}

type progressKey struct {
	userID   int64
	moduleID uuid.UUID
}

type stubProgressRepo struct {
	modules *stubModuleRepo
	rows    map[progressKey]*domain.Progress
	inserts int
}

func newStubProgressRepo(modules *stubModuleRepo) *stubProgressRepo {
	return &stubProgressRepo{modules: modules, rows: make(map[progressKey]*domain.Progress)}
}

func (r *stubProgressRepo) MarkCompleted(_ context.Context, userID int64, moduleID uuid.UUID) (bool, error) {
	key := progressKey{userID, moduleID}
	row, ok := r.rows[key]
	if !ok {
		row = &domain.Progress{UserID: userID, ModuleID: moduleID}
		r.rows[key] = row
		r.inserts++
	}
	if row.IsCompleted {
		return false, nil
	}
	now := time.Now().UTC()
	row.IsCompleted = true
	row.CompletedAt = &now
	return true, nil
}

func (r *stubProgressRepo) IsCompleted(_ context.Context, userID int64, moduleID uuid.UUID) (bool, error) {
	row, ok := r.rows[progressKey{userID, moduleID}]
	return ok && row.IsCompleted, nil
}

func (r *stubProgressRepo) CompletedCount(_ context.Context, userID int64, courseID uuid.UUID) (int64, error) {
	var n int64
	for key, row := range r.rows {
		m, ok := r.modules.modules[key.moduleID]
		if key.userID == userID && ok && m.CourseID == courseID && row.IsCompleted {
			n++
		}
	}
	return n, nil
}

func (r *stubProgressRepo) LastCompletedAt(_ context.Context, userID int64, courseID uuid.UUID) (time.Time, error) {
	var last time.Time
	for key, row := range r.rows {
		m, ok := r.modules.modules[key.moduleID]
		if key.userID != userID || !ok || m.CourseID != courseID || row.CompletedAt == nil {
			continue
		}
		if row.CompletedAt.After(last) {
			last = *row.CompletedAt
		}
	}
	return last, nil
}

type stubLock struct {
	acquired   bool
	acquireErr error
	releases   int
	released   []string
}

const stubLockToken = "holder-token"

func (l *stubLock) Acquire(_ context.Context, _ int64, _ uuid.UUID) (string, bool, error) {
	if l.acquireErr != nil || !l.acquired {
		return "", false, l.acquireErr
	}
	return stubLockToken, true, nil
}

func (l *stubLock) Release(_ context.Context, _ int64, _ uuid.UUID, token string) error {
	l.releases++
	l.released = append(l.released, token)
	return nil
}

type stubRecorder struct {
	events []domain.ActivityEvent
}

func (r *stubRecorder) Record(e domain.ActivityEvent) {
	r.events = append(r.events, e)
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func paginate[T any](items []T, page ports.PageRequest) []T {
	page = page.Normalize()
	skip := page.Offset()
	if skip >= len(items) {
		return []T{}
	}
	end := skip + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
