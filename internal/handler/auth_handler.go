package handler

import (
	"errors"
	"net/http"

	"directory-service/internal/middleware"
	"directory-service/internal/model"
	"directory-service/internal/service"

	"github.com/labstack/echo/v4"
)

const invalidLoginMessage = "Invalid partnership number or password"

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	FirstName         string `json:"first_name" validate:"max=150"`
	LastName          string `json:"last_name" validate:"max=150"`
	PartnershipNumber string `json:"partnership_number" validate:"required,max=32"`
	UserType          string `json:"user_type" validate:"omitempty,oneof=business community"`
	Email             string `json:"email" validate:"omitempty,email,max=254"`
	Phone             string `json:"phone" validate:"omitempty,max=20"`
	Password          string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	PartnershipNumber string `json:"partnership_number" validate:"required"`
	Password          string `json:"password" validate:"required"`
}

type tokenRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// Register creates a community or business account
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, "Registration failed", err)
	}

	user, err := h.auth.Register(c.Request().Context(), service.RegisterInput{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PartnershipNumber: req.PartnershipNumber,
		UserType:          req.UserType,
		Email:             req.Email,
		Phone:             req.Phone,
		Password:          req.Password,
	})
	if err != nil {
		return respondError(c, "Registration failed", err)
	}

	return success(c, http.StatusOK, "User registered successfully", echo.Map{
		"user_id":            user.ID,
		"email":              user.Email,
		"phone":              user.Phone,
		"user_type":          user.UserType,
		"partnership_number": user.PartnershipNumber,
	})
}

// Login exchanges a partnership number and password for a token pair
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, "Login failed", err)
	}

	res, err := h.auth.Login(c.Request().Context(), req.PartnershipNumber, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		return fail(c, http.StatusBadRequest, invalidLoginMessage, nil)
	}
	if err != nil {
		return respondError(c, "Login failed", err)
	}

	return success(c, http.StatusOK, "Login successful", echo.Map{
		"access":             res.Tokens.Access,
		"refresh":            res.Tokens.Refresh,
		"access_expires_at":  res.Tokens.AccessExpiresAt,
		"refresh_expires_at": res.Tokens.RefreshExpiresAt,
		"user_id":            res.User.ID,
		"partnership_number": res.User.PartnershipNumber,
		"user_type":          res.User.UserType,
		"email":              res.User.Email,
		"phone":              res.User.Phone,
		"is_active":          res.User.IsActive,
	})
}

// Refresh issues a new token pair for a valid refresh token
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req tokenRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, "Token refresh failed", err)
	}

	pair, err := h.auth.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		return respondError(c, "Token refresh failed", err)
	}

	return success(c, http.StatusOK, "Token refreshed successfully", echo.Map{
		"access":             pair.Access,
		"refresh":            pair.Refresh,
		"access_expires_at":  pair.AccessExpiresAt,
		"refresh_expires_at": pair.RefreshExpiresAt,
	})
}

// Logout revokes the caller's refresh token
func (h *AuthHandler) Logout(c echo.Context) error {
	var req tokenRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, "Logout failed", err)
	}

	if err := h.auth.Logout(c.Request().Context(), middleware.IdentityFrom(c), req.Refresh); err != nil {
		return respondError(c, "Logout failed", err)
	}

	return success(c, http.StatusOK, "Logged out successfully", nil)
}

// profileView is the public projection of a user; the password hash never leaves the service
func profileView(u *model.User) echo.Map {
	return echo.Map{
		"id":                 u.ID,
		"first_name":         u.FirstName,
		"last_name":          u.LastName,
		"partnership_number": u.PartnershipNumber,
		"user_type":          u.UserType,
		"email":              u.Email,
		"phone":              u.Phone,
		"is_active":          u.IsActive,
		"created_at":         u.CreatedAt,
	}
}
