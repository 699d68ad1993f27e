package handler

import (
	"net/http"

	"directory-service/internal/middleware"
	"directory-service/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	profile *service.ProfileService
}

func NewUserHandler(profile *service.ProfileService) *UserHandler {
	return &UserHandler{profile: profile}
}

type updateProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=150"`
	LastName  *string `json:"last_name" validate:"omitempty,max=150"`
	Email     *string `json:"email" validate:"omitnil,email_or_empty,max=254"`
	Phone     *string `json:"phone" validate:"omitnil,max=20"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	user, err := h.profile.Get(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return respondError(c, "Profile unavailable", err)
	}
	return success(c, http.StatusOK, "Fetched profile successfully", profileView(user))
}

func (h *UserHandler) UpdateProfile(c echo.Context) error {
	var req updateProfileRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, "Profile update failed", err)
	}

	user, err := h.profile.Update(c.Request().Context(), middleware.IdentityFrom(c), service.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		return respondError(c, "Profile update failed", err)
	}
	return success(c, http.StatusOK, "Profile updated successfully", profileView(user))
}

func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, "Password change failed", err)
	}

	err := h.profile.ChangePassword(c.Request().Context(), middleware.IdentityFrom(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		return respondError(c, "Password change failed", err)
	}
	return success(c, http.StatusOK, "Password changed successfully", nil)
}
