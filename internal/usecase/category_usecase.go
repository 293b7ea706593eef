package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CategoryUsecase struct {
	categoryRepo repo.CategoryRepository
	auditRepo    repo.AuditLogRepository
	idGen        IDGenerator
	clock        Clock
}

// DI
func NewCategoryUsecase(
	categoryRepo repo.CategoryRepository,
	auditRepo repo.AuditLogRepository,
	idGen IDGenerator,
	clock Clock,
) *CategoryUsecase {
	return &CategoryUsecase{
		categoryRepo: categoryRepo,
		auditRepo:    auditRepo,
		idGen:        idGen,
		clock:        clock,
	}
}

// 公開中のカテゴリ全件を名前昇順で返す。
// ページングなしの素の配列（安定した形として固定）。
func (u *CategoryUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := u.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

// 公開中のカテゴリをIDで取得（所属商品つき）。停止済みは404。
func (u *CategoryUsecase) GetCategory(ctx context.Context, categoryID string) (model.Category, error) {
	if categoryID == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	c, err := u.categoryRepo.FindActiveByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return c, nil
}

type CreateCategoryInput struct {
	Name        string
	Description string
	IsActive    *bool // 省略時はtrue
}

func (u *CategoryUsecase) AdminCreateCategory(ctx context.Context, actorUserID string, in CreateCategoryInput) (model.Category, error) {
	if actorUserID == "" {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	taken, err := u.categoryRepo.ExistsByName(ctx, name)
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if taken {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category name already exists")
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}

	now := u.clock.Now()
	created, err := u.categoryRepo.Create(ctx, model.Category{
		ID:          u.idGen.NewID(),
		Name:        name,
		Description: in.Description,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category name already exists")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.audit(ctx, actorUserID, model.AuditActionCreate, created.ID, "", snapshotJSON(created)); err != nil {
		return model.Category{}, err
	}
	return created, nil
}

type UpdateCategoryInput struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// 部分更新。停止済みの行でもIDが解決できれば更新する。
func (u *CategoryUsecase) AdminUpdateCategory(ctx context.Context, actorUserID string, categoryID string, in UpdateCategoryInput) (model.Category, error) {
	if actorUserID == "" {
		return model.Category{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "invalid category id")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name required")
	}

	before, err := u.categoryRepo.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated, err := u.categoryRepo.Update(ctx, categoryID, repo.CategoryPatch{
		Name:        in.Name,
		Description: in.Description,
		IsActive:    in.IsActive,
	})
	if errors.Is(err, repo.ErrConflict) {
		return model.Category{}, NewHTTPError(http.StatusConflict, "category name already exists")
	}
	if errors.Is(err, repo.ErrNotFound) {
		return model.Category{}, NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.audit(ctx, actorUserID, model.AuditActionUpdate, categoryID, snapshotJSON(before), snapshotJSON(updated)); err != nil {
		return model.Category{}, err
	}
	return updated, nil
}

// ソフトデリート。所属商品のFKはそのまま残す（カスケードしない）。
func (u *CategoryUsecase) AdminDeleteCategory(ctx context.Context, actorUserID string, categoryID string) error {
	if actorUserID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if categoryID == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid category id")
	}

	before, err := u.categoryRepo.FindByID(ctx, categoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	err = u.categoryRepo.SoftDelete(ctx, categoryID, u.clock.Now())
	if errors.Is(err, repo.ErrNotFound) {
		return NewHTTPError(http.StatusNotFound, "category not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.audit(ctx, actorUserID, model.AuditActionSoftDelete, categoryID, snapshotJSON(before), `{"isActive":false}`)
}

func (u *CategoryUsecase) audit(ctx context.Context, actorUserID string, action model.AuditAction, resourceID string, beforeJSON string, afterJSON string) error {
	err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actorUserID,
		Action:       action,
		ResourceType: model.AuditResourceCategory,
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
