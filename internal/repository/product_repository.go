package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（名前やemailの重複）を統一
var ErrConflict = errors.New("conflict")

// 一覧検索の条件。クローズドな述語の集合であり、生のSQL断片は受け取らない。
// SortColumnはusecase側で許可リスト検証済みのカラム名のみが入る。
type ProductListQuery struct {
	Page       int
	Limit      int
	Search     string
	CategoryID string
	MinPrice   *float64
	MaxPrice   *float64
	SortColumn string
	SortDesc   bool
}

// 部分更新。nilのフィールドは変更しない。
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int64
	CategoryID  *string
	IsActive    *bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	// 公開中（is_active=true）の商品を条件付きで返す。totalはページング前の件数。
	List(ctx context.Context, q ProductListQuery) ([]model.Product, int64, error)

	// 公開中の商品をIDで1件取得。停止済みはErrNotFound。
	FindActiveByID(ctx context.Context, id string) (model.Product, error)

	// 状態を問わずIDで1件取得（更新・監査用）。
	FindByID(ctx context.Context, id string) (model.Product, error)

	// 名前の完全一致（大文字小文字区別）で存在確認。
	ExistsByName(ctx context.Context, name string) (bool, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)

	// 部分更新して更新後の行を返す。行が無ければErrNotFound。
	Update(ctx context.Context, id string, patch ProductPatch) (model.Product, error)

	// is_activeをfalseにし、deleted_atを打つ。対象は公開中の行のみ。
	SoftDelete(ctx context.Context, id string, now time.Time) error
}
