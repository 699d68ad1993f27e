package handler

import (
	"net/http"
	"strconv"

	"directory-service/internal/middleware"
	"directory-service/internal/service"

	"github.com/labstack/echo/v4"
)

type BusinessHandler struct {
	businesses *service.BusinessService
	categories *service.CategoryService
}

func NewBusinessHandler(businesses *service.BusinessService, categories *service.CategoryService) *BusinessHandler {
	return &BusinessHandler{businesses: businesses, categories: categories}
}

// businessRequest serves create, full and partial update. Omitted fields stay
// unchanged; any owner field in the payload is ignored.
type businessRequest struct {
	CategoryID  *string  `json:"category_id" validate:"omitempty,uuid"`
	Name        *string  `json:"name" validate:"omitempty,max=255"`
	Description *string  `json:"description"`
	City        *string  `json:"city" validate:"omitempty,max=100"`
	County      *string  `json:"county" validate:"omitempty,max=100"`
	Address     *string  `json:"address" validate:"omitempty,max=255"`
	Phone       *string  `json:"phone" validate:"omitempty,max=20"`
	Email       *string  `json:"email" validate:"omitempty,email,max=254"`
	Website     *string  `json:"website" validate:"omitempty,url,max=255"`
	Rating      *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
	IsFeatured  *bool    `json:"is_featured"`
}

func (r businessRequest) input() service.BusinessInput {
	return service.BusinessInput{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		City:        r.City,
		County:      r.County,
		Address:     r.Address,
		Phone:       r.Phone,
		Email:       r.Email,
		Website:     r.Website,
		Rating:      r.Rating,
		IsFeatured:  r.IsFeatured,
	}
}

// List returns active businesses with filtering, search, ordering and paging
func (h *BusinessHandler) List(c echo.Context) error {
	q := service.ListQuery{
		Category: c.QueryParam("category"),
		City:     c.QueryParam("city"),
		County:   c.QueryParam("county"),
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
	}

	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("page_size", &q.PageSize).
		BindError()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Invalid query", FieldErrors{"page": "The page and page_size must be integers."})
	}

	if raw := c.QueryParam("is_featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "Invalid query", FieldErrors{"is_featured": "The is_featured must be true or false."})
		}
		q.IsFeatured = &featured
	}

	page, err := h.businesses.List(c.Request().Context(), q)
	if err != nil {
		return respondError(c, "Invalid query", err)
	}
	return success(c, http.StatusOK, "Fetched businesses successfully", page)
}

func (h *BusinessHandler) Get(c echo.Context) error {
	b, err := h.businesses.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, "Business unavailable", err)
	}
	return success(c, http.StatusOK, "Fetched business successfully", b)
}

func (h *BusinessHandler) Create(c echo.Context) error {
	var req businessRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, "Business creation failed", err)
	}

	b, err := h.businesses.Create(c.Request().Context(), middleware.IdentityFrom(c), req.input())
	if err != nil {
		return respondError(c, "Business creation failed", err)
	}
	return success(c, http.StatusOK, "Business created successfully", b)
}

// Update serves both PUT and PATCH
func (h *BusinessHandler) Update(c echo.Context) error {
	var req businessRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, "Business update failed", err)
	}

	b, err := h.businesses.Update(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id"), req.input())
	if err != nil {
		return respondError(c, "Business update failed", err)
	}
	return success(c, http.StatusOK, "Business updated successfully", b)
}

// Delete deactivates the business; the row is kept
func (h *BusinessHandler) Delete(c echo.Context) error {
	if err := h.businesses.Deactivate(c.Request().Context(), middleware.IdentityFrom(c), c.Param("id")); err != nil {
		return respondError(c, "Business removal failed", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BusinessHandler) Categories(c echo.Context) error {
	categories, err := h.categories.List(c.Request().Context())
	if err != nil {
		return respondError(c, "Categories unavailable", err)
	}
	return success(c, http.StatusOK, "Fetched categories successfully", categories)
}
