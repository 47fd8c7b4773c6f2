package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/api/metrics"
	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// CourseHandler serves the course catalogue, purchases and certificates.
type CourseHandler struct {
	courses   ports.CourseService
	purchases ports.PurchaseService
	progress  ports.ProgressService
}

func NewCourseHandler(courses ports.CourseService, purchases ports.PurchaseService, progress ports.ProgressService) *CourseHandler {
	return &CourseHandler{courses: courses, purchases: purchases, progress: progress}
}

// List handles GET /api/courses.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Param        q      query     string  false  "Search in title, instructor and topics"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size (max 50)"
// @Success      200    {object}  envelope{data=[]courseResponse}
// @Router       /api/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.courses.ListCourses(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respondPage(c, "Courses retrieved", page, toCourseResponses(page.Items))
}

// Get handles GET /api/courses/:id.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  envelope{data=courseResponse}
// @Failure      404  {object}  envelope
// @Router       /api/courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	id, err := uuidParam(c, "id", domain.ErrCourseNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	course, err := h.courses.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	total, err := h.progress.TotalModules(ctx, id)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Course retrieved", courseResponse{Course: course, TotalModules: total})
}

// Create handles POST /api/courses.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCourseRequest  true  "Course"
// @Success      201   {object}  envelope{data=domain.Course}
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Router       /api/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req createCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	course, err := h.courses.CreateCourse(c.Request().Context(), ports.CreateCourseInput{
		Title:          req.Title,
		Description:    req.Description,
		Instructor:     req.Instructor,
		Topics:         req.Topics,
		Price:          req.Price,
		ThumbnailImage: req.ThumbnailImage,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Course created successfully", course)
}

// Update handles PUT /api/courses/:id. Absent fields keep their value.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Course id"
// @Param        body  body      updateCourseRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=domain.Course}
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /api/courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	id, err := uuidParam(c, "id", domain.ErrCourseNotFound)
	if err != nil {
		return err
	}

	var req updateCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	course, err := h.courses.UpdateCourse(c.Request().Context(), id, ports.UpdateCourseInput{
		Title:          req.Title,
		Description:    req.Description,
		Instructor:     req.Instructor,
		Topics:         req.Topics,
		Price:          req.Price,
		ThumbnailImage: req.ThumbnailImage,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Course updated successfully", course)
}

// Delete handles DELETE /api/courses/:id.
//
// @Summary      Delete a course
// @Tags         courses
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	id, err := uuidParam(c, "id", domain.ErrCourseNotFound)
	if err != nil {
		return err
	}
	if err := h.courses.DeleteCourse(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Course deleted successfully", nil)
}

// Buy handles POST /api/courses/:id/buy.
//
// @Summary      Purchase a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      201  {object}  envelope{data=purchaseResponse}
// @Failure      402  {object}  envelope
// @Failure      404  {object}  envelope
// @Failure      409  {object}  envelope
// @Router       /api/courses/{id}/buy [post]
func (h *CourseHandler) Buy(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", domain.ErrCourseNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	course, err := h.courses.GetCourse(ctx, id)
	if err != nil {
		return err
	}

	result, err := h.purchases.Purchase(ctx, user, course)
	strategy := strategyLabel(course)
	if err != nil {
		metrics.PurchasesTotal.WithLabelValues(strategy, purchaseFailureLabel(err)).Inc()
		return err
	}

	metrics.PurchasesTotal.WithLabelValues(strategy, "success").Inc()
	if course.Price > 0 {
		metrics.PurchaseRevenueTotal.Add(float64(course.Price))
	}

	return respond(c, http.StatusCreated, "Course purchased successfully", purchaseResponse{
		CourseID:      course.ID.String(),
		UserBalance:   result.Balance,
		TransactionID: result.Purchase.ID,
		Strategy:      result.Strategy,
	})
}

// MyCourses handles GET /api/courses/my-courses.
//
// @Summary      List purchased courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Filter on course title"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size (max 50)"
// @Success      200    {object}  envelope{data=[]ownedCourseResponse}
// @Router       /api/courses/my-courses [get]
func (h *CourseHandler) MyCourses(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.purchases.ListOwnedCourses(c.Request().Context(), user, req)
	if err != nil {
		return err
	}
	return respondPage(c, "Purchased courses retrieved", page, toOwnedCourseResponses(page.Items))
}

// Certificate handles GET /api/courses/:id/certificate.
//
// @Summary      Course completion certificate
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course id"
// @Success      200  {object}  envelope{data=certificateResponse}
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/courses/{id}/certificate [get]
func (h *CourseHandler) Certificate(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", domain.ErrCourseNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	course, err := h.courses.GetCourse(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureCourseAccess(ctx, h.purchases, user, course.ID); err != nil {
		return err
	}

	cert, err := h.progress.Certificate(ctx, user, course)
	if err != nil {
		return err
	}

	metrics.CertificatesIssuedTotal.Inc()
	return respond(c, http.StatusOK, "Certificate generated", toCertificateResponse(cert))
}
