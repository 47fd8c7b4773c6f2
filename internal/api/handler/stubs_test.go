package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/api/middleware"
	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// newContext builds an echo context for method/target with an optional JSON
// body and the given current user.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		c.Set(middleware.ContextUser, user)
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

var (
	learner = &domain.User{ID: 7, Username: "lee", Email: "lee@example.com", Balance: 50, IsActive: true}
	admin   = &domain.User{ID: 1, Username: "root", Email: "root@example.com", IsAdministrator: true, IsActive: true}
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, identifier, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, identifier, password)
}

type stubCourseService struct {
	courses map[uuid.UUID]*domain.Course
	created *ports.CreateCourseInput
}

func newStubCourseService(courses ...*domain.Course) *stubCourseService {
	s := &stubCourseService{courses: map[uuid.UUID]*domain.Course{}}
	for _, c := range courses {
		s.courses[c.ID] = c
	}
	return s
}

func (s *stubCourseService) CreateCourse(_ context.Context, in ports.CreateCourseInput) (*domain.Course, error) {
	s.created = &in
	c := &domain.Course{ID: uuid.New(), Title: in.Title}
	if in.Price != nil {
		c.Price = *in.Price
	}
	s.courses[c.ID] = c
	return c, nil
}

func (s *stubCourseService) GetCourse(_ context.Context, id uuid.UUID) (*domain.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return c, nil
}

func (s *stubCourseService) UpdateCourse(ctx context.Context, id uuid.UUID, in ports.UpdateCourseInput) (*domain.Course, error) {
	c, err := s.GetCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		c.Title = *in.Title
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	return c, nil
}

func (s *stubCourseService) DeleteCourse(_ context.Context, id uuid.UUID) error {
	if _, ok := s.courses[id]; !ok {
		return domain.ErrCourseNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *stubCourseService) ListCourses(_ context.Context, page ports.PageRequest) (*ports.PageResult[ports.CourseSummary], error) {
	items := make([]ports.CourseSummary, 0, len(s.courses))
	for _, c := range s.courses {
		items = append(items, ports.CourseSummary{Course: c, TotalModules: 3})
	}
	return ports.NewPageResult(items, int64(len(items)), page), nil
}

type stubPurchaseService struct {
	owned      map[uuid.UUID]bool
	purchaseFn func(user *domain.User, course *domain.Course) (*ports.PurchaseResult, error)
}

func newStubPurchaseService(owned ...uuid.UUID) *stubPurchaseService {
	s := &stubPurchaseService{owned: map[uuid.UUID]bool{}}
	for _, id := range owned {
		s.owned[id] = true
	}
	return s
}

func (s *stubPurchaseService) Purchase(_ context.Context, user *domain.User, course *domain.Course) (*ports.PurchaseResult, error) {
	return s.purchaseFn(user, course)
}

func (s *stubPurchaseService) HasPurchased(_ context.Context, _ *domain.User, courseID uuid.UUID) (bool, error) {
	return s.owned[courseID], nil
}

func (s *stubPurchaseService) ListOwnedCourses(_ context.Context, _ *domain.User, page ports.PageRequest) (*ports.PageResult[ports.OwnedCourse], error) {
	var items []ports.OwnedCourse
	for id := range s.owned {
		items = append(items, ports.OwnedCourse{Course: &domain.Course{ID: id, Title: "Owned"}, ProgressPercentage: 50})
	}
	return ports.NewPageResult(items, int64(len(items)), page), nil
}

type stubProgressService struct {
	completed map[uuid.UUID]bool
	total     int64
	certErr   error
}

func newStubProgressService(total int64) *stubProgressService {
	return &stubProgressService{completed: map[uuid.UUID]bool{}, total: total}
}

func (s *stubProgressService) MarkCompleted(_ context.Context, _ *domain.User, module *domain.Module) (*ports.CompletionResult, error) {
	newly := !s.completed[module.ID]
	s.completed[module.ID] = true
	summary := domain.NewProgressSummary(s.total, int64(len(s.completed)))
	res := &ports.CompletionResult{ModuleID: module.ID, CourseID: module.CourseID, Progress: summary, Newly: newly}
	if summary.Complete() {
		url := domain.CertificateURL(module.CourseID)
		res.CertificateURL = &url
	}
	return res, nil
}

func (s *stubProgressService) GetStatus(_ context.Context, user *domain.User, moduleID uuid.UUID) (bool, error) {
	if user == nil {
		return false, nil
	}
	return s.completed[moduleID], nil
}

func (s *stubProgressService) CompletedCount(context.Context, int64, uuid.UUID) (int64, error) {
	return int64(len(s.completed)), nil
}

func (s *stubProgressService) TotalModules(context.Context, uuid.UUID) (int64, error) {
	return s.total, nil
}

func (s *stubProgressService) Summary(context.Context, int64, uuid.UUID) (domain.ProgressSummary, error) {
	return domain.NewProgressSummary(s.total, int64(len(s.completed))), nil
}

func (s *stubProgressService) Certificate(_ context.Context, user *domain.User, course *domain.Course) (*ports.Certificate, error) {
	if s.certErr != nil {
		return nil, s.certErr
	}
	return &ports.Certificate{
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName(),
		TotalModules: s.total,
	}, nil
}

type stubModuleService struct {
	modules   map[uuid.UUID]*domain.Module
	reordered []ports.ModuleOrderInput
}

func newStubModuleService(modules ...*domain.Module) *stubModuleService {
	s := &stubModuleService{modules: map[uuid.UUID]*domain.Module{}}
	for _, m := range modules {
		s.modules[m.ID] = m
	}
	return s
}

func (s *stubModuleService) CreateModule(_ context.Context, courseID uuid.UUID, in ports.CreateModuleInput) (*domain.Module, error) {
	m := &domain.Module{ID: uuid.New(), CourseID: courseID, Title: in.Title, Order: domain.DefaultModuleOrder}
	if in.Order != nil {
		m.Order = *in.Order
	}
	s.modules[m.ID] = m
	return m, nil
}

func (s *stubModuleService) GetModule(_ context.Context, id uuid.UUID) (*domain.Module, error) {
	m, ok := s.modules[id]
	if !ok {
		return nil, domain.ErrModuleNotFound
	}
	return m, nil
}

func (s *stubModuleService) UpdateModule(ctx context.Context, id uuid.UUID, in ports.UpdateModuleInput) (*domain.Module, error) {
	m, err := s.GetModule(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		m.Title = *in.Title
	}
	return m, nil
}

func (s *stubModuleService) DeleteModule(_ context.Context, id uuid.UUID) error {
	if _, ok := s.modules[id]; !ok {
		return domain.ErrModuleNotFound
	}
	delete(s.modules, id)
	return nil
}

func (s *stubModuleService) ListModules(_ context.Context, courseID uuid.UUID, page ports.PageRequest) (*ports.PageResult[*domain.Module], error) {
	var items []*domain.Module
	for _, m := range s.modules {
		if m.CourseID == courseID {
			items = append(items, m)
		}
	}
	return ports.NewPageResult(items, int64(len(items)), page), nil
}

func (s *stubModuleService) Reorder(_ context.Context, courseID uuid.UUID, entries []ports.ModuleOrderInput) ([]domain.ModuleOrder, error) {
	s.reordered = entries
	var applied []domain.ModuleOrder
	for _, e := range entries {
		if e.ID == nil || e.Order == nil {
			continue
		}
		id, err := uuid.Parse(*e.ID)
		if err != nil {
			continue
		}
		if m, ok := s.modules[id]; ok && m.CourseID == courseID {
			m.Order = *e.Order
			applied = append(applied, domain.ModuleOrder{ID: id, Order: *e.Order})
		}
	}
	return applied, nil
}

type stubUserService struct {
	users map[int64]*domain.User
}

func newStubUserService(users ...*domain.User) *stubUserService {
	s := &stubUserService{users: map[int64]*domain.User{}}
	for _, u := range users {
		cp := *u
		s.users[u.ID] = &cp
	}
	return s
}

func (s *stubUserService) GetUser(_ context.Context, id int64) (*domain.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserService) ListUsers(_ context.Context, page ports.PageRequest) (*ports.PageResult[*domain.User], error) {
	items := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		items = append(items, u)
	}
	return ports.NewPageResult(items, int64(len(items)), page), nil
}

func (s *stubUserService) UpdateUser(ctx context.Context, id int64, in ports.UpdateUserInput) (*domain.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsAdministrator {
		return nil, domain.ErrAdminProtected
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	return u, nil
}

func (s *stubUserService) DeactivateUser(ctx context.Context, id int64) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if u.IsAdministrator {
		return domain.ErrAdminProtected
	}
	u.IsActive = false
	return nil
}

func (s *stubUserService) ChangeBalance(ctx context.Context, id int64, increment int64) (*domain.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Balance+increment < 0 {
		return nil, domain.ErrInsufficientBalance
	}
	u.Balance += increment
	return u, nil
}

func (s *stubUserService) Promote(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	u.IsAdministrator = true
	return u, nil
}
