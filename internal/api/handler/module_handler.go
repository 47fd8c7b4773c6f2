package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/api/metrics"
	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// ModuleHandler serves course modules and per-user completion.
type ModuleHandler struct {
	modules   ports.ModuleService
	courses   ports.CourseService
	purchases ports.PurchaseService
	progress  ports.ProgressService
}

func NewModuleHandler(modules ports.ModuleService, courses ports.CourseService, purchases ports.PurchaseService, progress ports.ProgressService) *ModuleHandler {
	return &ModuleHandler{modules: modules, courses: courses, purchases: purchases, progress: progress}
}

// ListByCourse handles GET /api/courses/:id/modules.
//
// @Summary      List the modules of a purchased course
// @Tags         modules
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Course id"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size (max 50)"
// @Success      200    {object}  envelope{data=[]moduleResponse}
// @Failure      403    {object}  envelope
// @Failure      404    {object}  envelope
// @Router       /api/courses/{id}/modules [get]
func (h *ModuleHandler) ListByCourse(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID, err := uuidParam(c, "id", domain.ErrCourseNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	if _, err := h.courses.GetCourse(ctx, courseID); err != nil {
		return err
	}
	if err := ensureCourseAccess(ctx, h.purchases, user, courseID); err != nil {
		return err
	}

	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.modules.ListModules(ctx, courseID, req)
	if err != nil {
		return err
	}

	items := make([]moduleResponse, len(page.Items))
	for i, m := range page.Items {
		done, err := h.progress.GetStatus(ctx, user, m.ID)
		if err != nil {
			return err
		}
		items[i] = moduleResponse{Module: m, IsCompleted: done}
	}
	return respondPage(c, "Modules retrieved", page, items)
}

// Create handles POST /api/courses/:id/modules.
//
// @Summary      Add a module to a course
// @Tags         modules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Course id"
// @Param        body  body      createModuleRequest  true  "Module"
// @Success      201   {object}  envelope{data=domain.Module}
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /api/courses/{id}/modules [post]
func (h *ModuleHandler) Create(c echo.Context) error {
	courseID, err := uuidParam(c, "id", domain.ErrCourseNotFound)
	if err != nil {
		return err
	}

	var req createModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	module, err := h.modules.CreateModule(c.Request().Context(), courseID, ports.CreateModuleInput{
		Title:        req.Title,
		Description:  req.Description,
		Order:        req.Order,
		PDFContent:   req.PDFContent,
		VideoContent: req.VideoContent,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Module created successfully", module)
}

// Reorder handles PATCH /api/courses/:id/modules/reorder.
//
// @Summary      Reorder course modules
// @Description  Entries missing id or order, or naming a module of another course, are skipped.
// @Tags         modules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Course id"
// @Param        body  body      reorderRequest  true  "New order"
// @Success      200   {object}  envelope{data=reorderResponse}
// @Failure      400   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /api/courses/{id}/modules/reorder [patch]
func (h *ModuleHandler) Reorder(c echo.Context) error {
	courseID, err := uuidParam(c, "id", domain.ErrCourseNotFound)
	if err != nil {
		return err
	}

	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.modules.Reorder(c.Request().Context(), courseID, toReorderInput(req.ModuleOrder))
	if err != nil {
		return err
	}
	if updated == nil {
		updated = []domain.ModuleOrder{}
	}
	return respond(c, http.StatusOK, "Modules reordered", reorderResponse{ModuleOrder: updated})
}

// Get handles GET /api/modules/:id.
//
// @Summary      Get a module
// @Tags         modules
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Module id"
// @Success      200  {object}  envelope{data=moduleResponse}
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/modules/{id} [get]
func (h *ModuleHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", domain.ErrModuleNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	module, err := h.modules.GetModule(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureCourseAccess(ctx, h.purchases, user, module.CourseID); err != nil {
		return err
	}

	done, err := h.progress.GetStatus(ctx, user, module.ID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Module retrieved", moduleResponse{Module: module, IsCompleted: done})
}

// Update handles PUT /api/modules/:id.
//
// @Summary      Update a module
// @Tags         modules
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Module id"
// @Param        body  body      updateModuleRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=domain.Module}
// @Failure      404   {object}  envelope
// @Router       /api/modules/{id} [put]
func (h *ModuleHandler) Update(c echo.Context) error {
	id, err := uuidParam(c, "id", domain.ErrModuleNotFound)
	if err != nil {
		return err
	}

	var req updateModuleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	module, err := h.modules.UpdateModule(c.Request().Context(), id, ports.UpdateModuleInput{
		Title:        req.Title,
		Description:  req.Description,
		Order:        req.Order,
		PDFContent:   req.PDFContent,
		VideoContent: req.VideoContent,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Module updated successfully", module)
}

// Delete handles DELETE /api/modules/:id.
//
// @Summary      Delete a module
// @Tags         modules
// @Security     BearerAuth
// @Param        id   path      string  true  "Module id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/modules/{id} [delete]
func (h *ModuleHandler) Delete(c echo.Context) error {
	id, err := uuidParam(c, "id", domain.ErrModuleNotFound)
	if err != nil {
		return err
	}
	if err := h.modules.DeleteModule(c.Request().Context(), id); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Module deleted successfully", nil)
}

// Complete handles PATCH /api/modules/:id/complete.
//
// @Summary      Mark a module completed
// @Tags         modules
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Module id"
// @Success      200  {object}  envelope{data=completionResponse}
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/modules/{id}/complete [patch]
func (h *ModuleHandler) Complete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id", domain.ErrModuleNotFound)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	module, err := h.modules.GetModule(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureCourseAccess(ctx, h.purchases, user, module.CourseID); err != nil {
		return err
	}

	result, err := h.progress.MarkCompleted(ctx, user, module)
	if err != nil {
		return err
	}

	if result.Newly {
		metrics.ModulesCompletedTotal.Inc()
	}
	return respond(c, http.StatusOK, "Module marked as completed", completionResponse{
		ModuleID:       result.ModuleID.String(),
		IsCompleted:    true,
		CourseProgress: result.Progress,
		CertificateURL: result.CertificateURL,
	})
}
