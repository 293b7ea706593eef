package repository

import (
	"app/internal/domain/model"
	"context"
	"time"
)

// 部分更新。nilのフィールドは変更しない。
type CategoryPatch struct {
	Name        *string
	Description *string
	IsActive    *bool
}

// カテゴリの永続化だけを約束。
type CategoryRepository interface {
	// 公開中のカテゴリ全件を名前昇順で返す。ページングなし。
	ListActive(ctx context.Context) ([]model.Category, error)

	// 公開中のカテゴリをIDで1件取得（所属商品つき）。停止済みはErrNotFound。
	FindActiveByID(ctx context.Context, id string) (model.Category, error)

	// 状態を問わずIDで1件取得。
	FindByID(ctx context.Context, id string) (model.Category, error)

	ExistsByName(ctx context.Context, name string) (bool, error)

	// 商品側のcategoryId検証用。
	ExistsActiveByID(ctx context.Context, id string) (bool, error)

	Create(ctx context.Context, c model.Category) (model.Category, error)

	Update(ctx context.Context, id string, patch CategoryPatch) (model.Category, error)

	SoftDelete(ctx context.Context, id string, now time.Time) error
}
