package handler

import (
	"net/http"
	"strconv"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /productsのAPI。読み取りは公開、書き込みはADMINのみ（ルート側でガード）。
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// ListはGET /productsのハンドラ。
// パラメータ省略時だけデフォルトを適用し、不正値は丸めずに400で弾く。
func (h *ProductHandler) List(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return writeErrorMessage(c, http.StatusBadRequest, "invalid page")
		}
		page = p
	}

	// limit（default 10）
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return writeErrorMessage(c, http.StatusBadRequest, "invalid limit")
		}
		limit = l
	}

	var minPrice *float64
	if v := c.QueryParam("minPrice"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return writeErrorMessage(c, http.StatusBadRequest, "invalid minPrice")
		}
		minPrice = &x
	}

	var maxPrice *float64
	if v := c.QueryParam("maxPrice"); v != "" {
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return writeErrorMessage(c, http.StatusBadRequest, "invalid maxPrice")
		}
		maxPrice = &x
	}

	out, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Page:       page,
		Limit:      limit,
		Search:     c.QueryParam("search"),
		CategoryID: c.QueryParam("category"),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		SortBy:     c.QueryParam("sortBy"),
		Order:      c.QueryParam("order"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, out)
}

// DetailはGET /products/:idのハンドラ。
func (h *ProductHandler) Detail(c echo.Context) error {
	p, err := h.uc.GetProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, p)
}

// POST /productsのリクエストボディ。
type productCreateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int64   `json:"stock"`
	CategoryID  *string  `json:"categoryId"`
	IsActive    *bool    `json:"isActive"`
}

// PATCH /products/:idのリクエストボディ。含まれるフィールドだけ更新する。
type productUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int64   `json:"stock"`
	CategoryID  *string  `json:"categoryId"`
	IsActive    *bool    `json:"isActive"`
}

// CreateはPOST /productsのハンドラ（ADMIN）。
func (h *ProductHandler) Create(c echo.Context) error {
	var req productCreateRequest
	if err := c.Bind(&req); err != nil {
		return writeErrorMessage(c, http.StatusBadRequest, "invalid body")
	}
	if req.Price == nil {
		return writeErrorMessage(c, http.StatusBadRequest, "price required")
	}

	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return writeErrorMessage(c, http.StatusUnauthorized, "unauthorized")
	}

	created, err := h.uc.AdminCreateProduct(c.Request().Context(), actorID, usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusCreated, created)
}

// UpdateはPATCH /products/:idのハンドラ（ADMIN）。
func (h *ProductHandler) Update(c echo.Context) error {
	var req productUpdateRequest
	if err := c.Bind(&req); err != nil {
		return writeErrorMessage(c, http.StatusBadRequest, "invalid body")
	}

	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return writeErrorMessage(c, http.StatusUnauthorized, "unauthorized")
	}

	updated, err := h.uc.AdminUpdateProduct(c.Request().Context(), actorID, c.Param("id"), usecase.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return writeError(c, err)
	}

	return writeData(c, http.StatusOK, updated)
}

// DeleteはDELETE /products/:idのハンドラ（ADMIN）。成功時はボディなしの204。
func (h *ProductHandler) Delete(c echo.Context) error {
	actorID, ok := getUserIDFromContext(c)
	if !ok {
		return writeErrorMessage(c, http.StatusUnauthorized, "unauthorized")
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), actorID, c.Param("id")); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// middleware.AuthJWTがc.Set("user_id", string)した値を取り出す
func getUserIDFromContext(c echo.Context) (string, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return "", false
	}

	id, ok := v.(string)
	if !ok || id == "" {
		return "", false
	}

	return id, true
}
