package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/core/ports"
)

type UserHandler struct {
	authService ports.AuthService
}

func NewUserHandler(authService ports.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

const minPasswordLen = 6

type createUserRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
	Level    string `json:"level"    validate:"required,level"`
	Name     string `json:"name"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Phone    string `json:"phone"`
}

// updateUserRequest is a partial update. Absent fields are left unchanged. An
// empty password keeps the current credential; any other value replaces it.
type updateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Level    *string `json:"level,omitempty"`
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"    validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty"`
}

type listUsersResponse struct {
	Data  []domain.User `json:"data"`
	Total int           `json:"total"`
}

// List returns users, optionally filtered.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        search  query     string  false  "Substring of username, name or email"
// @Param        level   query     string  false  "admin, gerente or user"
// @Success      200     {object}  listUsersResponse
// @Failure      401     {object}  map[string]string
// @Failure      403     {object}  map[string]string
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	filter := domain.UserFilter{Search: c.QueryParam("search")}
	if raw := c.QueryParam("level"); raw != "" {
		lvl, err := parseLevel(raw)
		if err != nil {
			return err
		}
		filter.Level = lvl
	}

	users, err := h.authService.ListUsers(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listUsersResponse{Data: users, Total: len(users)})
}

// Get returns one user.
//
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  map[string]string
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.authService.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create adds a user with its password.
//
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        body  body      createUserRequest  true  "New user"
// @Success      201   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	level, err := parseLevel(req.Level)
	if err != nil {
		return err
	}

	user, err := h.authService.CreateUser(c.Request().Context(), domain.NewUser{
		Username: req.Username,
		Level:    level,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	}, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

// Update edits a user and, when a password is given, replaces its credential.
//
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req updateUserRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	newPassword := ""
	if req.Password != nil {
		newPassword = *req.Password
	}
	if newPassword != "" && len(newPassword) < minPasswordLen {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}

	patch := domain.UserPatch{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if req.Level != nil {
		lvl, err := parseLevel(*req.Level)
		if err != nil {
			return err
		}
		patch.Level = &lvl
	}

	ctx := c.Request().Context()
	user, err := h.authService.UpdateUserByID(ctx, c.Param("id"), patch)
	if err != nil {
		return err
	}
	if newPassword != "" {
		if err := h.authService.UpdateUserPassword(ctx, user.Username, newPassword); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, user)
}

// Delete removes a user. The session user cannot delete itself.
//
// @Summary      Delete user
// @Tags         users
// @Param        id   path  string  true  "User ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.authService.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats counts users by level.
//
// @Summary      System statistics
// @Tags         users
// @Produce      json
// @Success      200  {object}  domain.SystemStats
// @Router       /api/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	stats, err := h.authService.SystemStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}
