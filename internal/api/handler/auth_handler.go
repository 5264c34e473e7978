package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/admin-console/internal/core/domain"
	"github.com/sirpyerre/admin-console/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Level    string `json:"level"    validate:"required,level"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// profileRequest is the self-edit form. Username and level are read-only there.
type profileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone *string `json:"phone,omitempty"`
}

// Login opens the console session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials and access level"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}
	level, err := parseLevel(req.Level)
	if err != nil {
		return err
	}

	token, user, err := h.authService.Login(c.Request().Context(), req.Username, req.Password, level)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, User: user})
}

// Logout closes the console session. It succeeds without a session too.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.authService.Logout(c.Request().Context()); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the session user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe edits the profile of the session user.
//
// @Summary      Update own profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      profileRequest  true  "Profile fields"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/me [patch]
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	me, err := ctxUser(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := bindValid(c, &req); err != nil {
		return err
	}

	updated, err := h.authService.UpdateUser(c.Request().Context(), me.ID, domain.UserPatch{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	if updated == nil {
		// The session outlived its user record.
		return domain.ErrUserNotFound
	}
	return c.JSON(http.StatusOK, updated)
}
