package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// UUIDなどのIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// sortByに指定できる名前と実カラムの対応（許可リスト）。
// ここに無い名前はそのまま400で弾く。
var productSortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type ProductUsecase struct {
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
	auditRepo    repo.AuditLogRepository
	idGen        IDGenerator
	clock        Clock
}

// DI
func NewProductUsecase(
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
	auditRepo repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
) *ProductUsecase {
	return &ProductUsecase{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		clock:        clock,
	}
}

// GET /productsの入力DTO。
// 省略されたパラメータはhandlerがデフォルト（page=1, limit=10）を入れる。
type ListProductsInput struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	SortBy     string // 空ならcreatedAt
	Order      string // 空ならDESC
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

type ProductListOutput struct {
	Data []model.Product `json:"data"`
	Meta PageMeta        `json:"meta"`
}

func (u *ProductUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	if in.Page < 1 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if in.MinPrice != nil && *in.MinPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "minPrice must be >= 0")
	}
	if in.MaxPrice != nil && *in.MaxPrice < 0 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "maxPrice must be >= 0")
	}
	if in.MinPrice != nil && in.MaxPrice != nil && *in.MinPrice > *in.MaxPrice {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "minPrice must be <= maxPrice")
	}

	sortBy := in.SortBy
	if sortBy == "" {
		sortBy = "createdAt"
	}
	column, ok := productSortColumns[sortBy]
	if !ok {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sortBy")
	}

	// 並び順は大文字小文字を区別しない
	desc := true
	switch strings.ToUpper(in.Order) {
	case "", "DESC":
		desc = true
	case "ASC":
		desc = false
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid order")
	}

	items, total, err := u.productRepo.List(ctx, repo.ProductListQuery{
		Page:       in.Page,
		Limit:      in.Limit,
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		MinPrice:   in.MinPrice,
		MaxPrice:   in.MaxPrice,
		SortColumn: column,
		SortDesc:   desc,
	})
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProductListOutput{
		Data: items,
		Meta: PageMeta{
			Total:      total,
			Page:       in.Page,
			Limit:      in.Limit,
			TotalPages: totalPages(total, in.Limit),
		},
	}, nil
}

// total=0のときは0ページ。ゼロ除算はしない。
func totalPages(total int64, limit int) int64 {
	if total <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// 公開中の商品をIDで取得。停止済み（ソフトデリート済み）は404。
func (u *ProductUsecase) GetProduct(ctx context.Context, productID string) (model.Product, error) {
	if productID == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.productRepo.FindActiveByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return p, nil
}

type CreateProductInput struct {
	Name        string
	Description string
	Price       float64
	Stock       *int64  // 省略時は0
	CategoryID  *string // 省略可（未分類の商品）
	IsActive    *bool   // 省略時はtrue
}

func (u *ProductUsecase) AdminCreateProduct(ctx context.Context, actorUserID string, in CreateProductInput) (model.Product, error) {
	if actorUserID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}

	stock := int64(0)
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}

	if in.CategoryID != nil && *in.CategoryID != "" {
		exists, err := u.categoryRepo.ExistsActiveByID(ctx, *in.CategoryID)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !exists {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "category not found")
		}
	}

	// 同名チェック（完全一致）。同時作成のすり抜けはDBの一意制約で拾う。
	taken, err := u.productRepo.ExistsByName(ctx, name)
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if taken {
		return model.Product{}, NewHTTPError(http.StatusConflict, "product name already exists")
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	now := u.clock.Now()
	created, err := u.productRepo.Create(ctx, model.Product{
		ID:          u.idGen.NewID(),
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       stock,
		CategoryID:  in.CategoryID,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusConflict, "product name already exists")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.audit(ctx, actorUserID, model.AuditActionCreate, created.ID, "", snapshotJSON(created)); err != nil {
		return model.Product{}, err
	}
	return created, nil
}

type UpdateProductInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int64
	CategoryID  *string
	IsActive    *bool
}

// 部分更新。リクエストに含まれるフィールドだけ上書きする。
// 停止済みの行でもIDが解決できれば更新する。
func (u *ProductUsecase) AdminUpdateProduct(ctx context.Context, actorUserID string, productID string, in UpdateProductInput) (model.Product, error) {
	if actorUserID == "" {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if in.Price != nil && *in.Price < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	if in.Stock != nil && *in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		exists, err := u.categoryRepo.ExistsActiveByID(ctx, *in.CategoryID)
		if err != nil {
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !exists {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "category not found")
		}
	}

	// 変更前スナップショット（監査用）。見つからなければ404。
	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated, err := u.productRepo.Update(ctx, productID, repo.ProductPatch{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		CategoryID:  in.CategoryID,
		IsActive:    in.IsActive,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Product{}, NewHTTPError(http.StatusConflict, "product name already exists")
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.audit(ctx, actorUserID, model.AuditActionUpdate, productID, snapshotJSON(before), snapshotJSON(updated)); err != nil {
		return model.Product{}, err
	}
	return updated, nil
}

// ソフトデリート。行は残すが一覧・単品取得から見えなくなる。
// すでに停止済みのIDに対しては404。
func (u *ProductUsecase) AdminDeleteProduct(ctx context.Context, actorUserID string, productID string) error {
	if actorUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	before, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.productRepo.SoftDelete(ctx, productID, u.clock.Now())
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.audit(ctx, actorUserID, model.AuditActionSoftDelete, productID, snapshotJSON(before), `{"isActive":false}`)
}

func (u *ProductUsecase) audit(ctx context.Context, actorUserID string, action model.AuditAction, resourceID string, beforeJSON string, afterJSON string) error {
	err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: model.AuditResourceProduct,
		ResourceID:   resourceID,
		BeforeJSON:   beforeJSON,
		AfterJSON:    afterJSON,
		CreatedAt:    u.clock.Now(),
	})
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func snapshotJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
