package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

// UserHandler exposes account administration.
type UserHandler struct {
	users     ports.UserService
	purchases ports.PurchaseService
}

func NewUserHandler(users ports.UserService, purchases ports.PurchaseService) *UserHandler {
	return &UserHandler{users: users, purchases: purchases}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  false  "Search in username, email and names"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size (max 50)"
// @Success      200    {object}  envelope{data=[]domain.User}
// @Failure      403    {object}  envelope
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	req, err := pageRequest(c)
	if err != nil {
		return err
	}
	page, err := h.users.ListUsers(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return respondPage(c, "Users retrieved", page, page.Items)
}

// Get handles GET /api/users/:id. Learners may only read their own profile.
//
// @Summary      Get a user with owned courses
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  envelope{data=userDetailResponse}
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := userIDParam(c)
	if err != nil {
		return err
	}
	if !caller.IsAdministrator && caller.ID != id {
		return domain.ErrForbidden
	}
	ctx := c.Request().Context()

	user, err := h.users.GetUser(ctx, id)
	if err != nil {
		return err
	}
	owned, err := h.purchases.ListOwnedCourses(ctx, user, ports.PageRequest{Limit: ports.MaxPageLimit}.Normalize())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User retrieved", userDetailResponse{
		User:    user,
		Courses: toOwnedCourseResponses(owned.Items),
	})
}

// Update handles PUT /api/users/:id.
//
// @Summary      Update a learner profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User id"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  envelope{data=domain.User}
// @Failure      400   {object}  envelope
// @Failure      403   {object}  envelope
// @Failure      409   {object}  envelope
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.UpdateUser(c.Request().Context(), id, ports.UpdateUserInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if errors.Is(err, domain.ErrAdminProtected) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot update admin")
	}
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", user)
}

// Delete handles DELETE /api/users/:id. The account is deactivated, not removed.
//
// @Summary      Deactivate a learner
// @Tags         users
// @Security     BearerAuth
// @Param        id   path      int  true  "User id"
// @Success      200  {object}  envelope
// @Failure      403  {object}  envelope
// @Failure      404  {object}  envelope
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	err = h.users.DeactivateUser(c.Request().Context(), id)
	if errors.Is(err, domain.ErrAdminProtected) {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete admin")
	}
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// Balance handles POST /api/users/:id/balance.
//
// @Summary      Adjust a user's balance
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "User id"
// @Param        body  body      balanceRequest  true  "Signed increment"
// @Success      200   {object}  envelope{data=domain.User}
// @Failure      400   {object}  envelope
// @Failure      402   {object}  envelope
// @Failure      404   {object}  envelope
// @Router       /api/users/{id}/balance [post]
func (h *UserHandler) Balance(c echo.Context) error {
	id, err := userIDParam(c)
	if err != nil {
		return err
	}

	var req balanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.users.ChangeBalance(c.Request().Context(), id, *req.Increment)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Balance updated", user)
}
