package handler

import (
	"errors"
	"net/http"

	"app/internal/middleware"
	auth "app/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
}

// DI
func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
	}
}

// /auth/registerのリクエストボディ。roleは省略可。
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// /auth/loginのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterはPOST /auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return writeErrorMessage(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmailFormat),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrInvalidRole):
			return writeErrorMessage(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return writeErrorMessage(c, http.StatusConflict, "email already exists")
		default:
			return writeErrorMessage(c, http.StatusInternalServerError, "internal error")
		}
	}

	return writeData(c, http.StatusCreated, user)
}

// LoginはPOST /auth/loginのハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return writeErrorMessage(c, http.StatusBadRequest, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return writeErrorMessage(c, http.StatusUnauthorized, "invalid credentials")
		}
		return writeErrorMessage(c, http.StatusInternalServerError, "internal error")
	}

	return writeData(c, http.StatusOK, out)
}

// ProfileはGET /auth/profileのハンドラ。
// AuthJWTが入れたclaimsをそのまま返す（DB再問い合わせなし）。
func (h *AuthHandler) Profile(c echo.Context) error {
	userID, _ := c.Get(middleware.CtxUserIDKey).(string)
	email, _ := c.Get(middleware.CtxUserEmailKey).(string)
	role, _ := c.Get(middleware.CtxUserRoleKey).(string)

	if userID == "" {
		return writeErrorMessage(c, http.StatusUnauthorized, "unauthorized")
	}

	return writeData(c, http.StatusOK, map[string]string{
		"userId": userID,
		"email":  email,
		"role":   role,
	})
}
