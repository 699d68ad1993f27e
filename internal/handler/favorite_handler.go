package handler

import (
	"net/http"

	"directory-service/internal/middleware"
	"directory-service/internal/service"

	"github.com/labstack/echo/v4"
)

type FavoriteHandler struct {
	favorites *service.FavoriteService
}

func NewFavoriteHandler(favorites *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites}
}

func (h *FavoriteHandler) Add(c echo.Context) error {
	if _, err := h.favorites.Add(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return respondError(c, "Favorite failed", err)
	}
	return success(c, http.StatusCreated, "Business favorited successfully", nil)
}

func (h *FavoriteHandler) Remove(c echo.Context) error {
	if err := h.favorites.Remove(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return respondError(c, "Favorite removal failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FavoriteHandler) List(c echo.Context) error {
	favorites, err := h.favorites.List(c.Request().Context(), middleware.IdentityFrom(c))
	if err != nil {
		return respondError(c, "Favorites unavailable", err)
	}
	return success(c, http.StatusOK, "Fetched favorites successfully", favorites)
}
