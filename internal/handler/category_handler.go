package handler

import (
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /categoriesのAPI。読み取りは公開、書き込みはADMINのみ（ルート側でガード）。
type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

// DI
func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// ListはGET /categoriesのハンドラ。
// 公開中の全件を名前昇順で返す。ページングなし。
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, categories)
}

// DetailはGET /categories/:idのハンドラ。所属商品も返す。
func (h *CategoryHandler) Detail(c echo.Context) error {
	category, err := h.uc.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, category)
}

// POST /categoriesのリクエストボディ。
type categoryCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    *bool  `json:"isActive"`
}

// PATCH /categories/:idのリクエストボディ。含まれるフィールドだけ更新する。
type categoryUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// CreateはPOST /categoriesのハンドラ（ADMIN）。
func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryCreateRequest
	if err := c.Bind(&req); err != nil {
		return writeErrorMessage(c, http.StatusBadRequest, "invalid body")
	}

	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return writeErrorMessage(c, http.StatusUnauthorized, "unauthorized")
	}

	created, err := h.uc.AdminCreateCategory(c.Request().Context(), actorID, usecase.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusCreated, created)
}

// UpdateはPATCH /categories/:idのハンドラ（ADMIN）。
func (h *CategoryHandler) Update(c echo.Context) error {
	var req categoryUpdateRequest
	if err := c.Bind(&req); err != nil {
		return writeErrorMessage(c, http.StatusBadRequest, "invalid body")
	}

	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return writeErrorMessage(c, http.StatusUnauthorized, "unauthorized")
	}

	updated, err := h.uc.AdminUpdateCategory(c.Request().Context(), actorID, c.Param("id"), usecase.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, updated)
}

// DeleteはDELETE /categories/:idのハンドラ（ADMIN）。成功時はボディなしの204。
func (h *CategoryHandler) Delete(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return writeErrorMessage(c, http.StatusUnauthorized, "unauthorized")
	}

	if err := h.uc.AdminDeleteCategory(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
