package repository_test

import (
	"context"
	"testing"
	"time"

	infra "app/internal/infra/repository"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultQuery() repo.ProductListQuery {
	return repo.ProductListQuery{
		Page:       1,
		Limit:      10,
		SortColumn: "created_at",
		SortDesc:   true,
	}
}

func TestProductGormRepository_List_ExcludesInactive(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	seedProduct(t, db, "Visible", "", 10, 1, nil, true)
	seedProduct(t, db, "Hidden", "", 10, 1, nil, false)

	items, total, err := r.List(ctx, defaultQuery())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Visible", items[0].Name)
	assert.Equal(t, int64(1), total)
}

func TestProductGormRepository_List_SearchCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	seedProduct(t, db, "World Atlas", "Illustrated atlas of the world", 34.99, 40, nil, true)
	seedProduct(t, db, "Garden Shovel", "Sturdy steel garden shovel", 24.99, 60, nil, true)

	// 名前でヒット（大文字小文字を無視）
	q := defaultQuery()
	q.Search = "ATLAS"
	items, total, err := r.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "World Atlas", items[0].Name)
	assert.Equal(t, int64(1), total)

	// 説明文でもヒット
	q.Search = "sturdy STEEL"
	items, _, err = r.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Garden Shovel", items[0].Name)

	// 一致なし
	q.Search = "nonexistent"
	items, total, err = r.List(ctx, q)
	require.NoError(t, err)
	assert.Len(t, items, 0)
	assert.Equal(t, int64(0), total)
}

func TestProductGormRepository_List_CategoryAndPriceRange(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	books := seedCategory(t, db, "Books", true)
	tools := seedCategory(t, db, "Tools", true)

	seedProduct(t, db, "World Atlas", "", 34.99, 40, &books.ID, true)
	seedProduct(t, db, "Pocket Dictionary", "", 9.99, 40, &books.ID, true)
	seedProduct(t, db, "Garden Shovel", "", 24.99, 60, &tools.ID, true)

	q := defaultQuery()
	q.CategoryID = books.ID
	min, max := 20.0, 50.0
	q.MinPrice = &min
	q.MaxPrice = &max

	items, total, err := r.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "World Atlas", items[0].Name)
	assert.Equal(t, int64(1), total)

	// 価格帯は両端を含む
	q = defaultQuery()
	exact := 34.99
	q.MinPrice = &exact
	q.MaxPrice = &exact
	items, _, err = r.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "World Atlas", items[0].Name)
}

func TestProductGormRepository_List_SortAndPagination(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	seedProduct(t, db, "C", "", 3, 1, nil, true)
	seedProduct(t, db, "A", "", 1, 1, nil, true)
	seedProduct(t, db, "E", "", 5, 1, nil, true)
	seedProduct(t, db, "B", "", 2, 1, nil, true)
	seedProduct(t, db, "D", "", 4, 1, nil, true)

	q := defaultQuery()
	q.SortColumn = "price"
	q.SortDesc = false
	q.Limit = 2
	q.Page = 2

	items, total, err := r.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, "C", items[0].Name)
	assert.Equal(t, "D", items[1].Name)

	// 範囲外のページは空。totalはそのまま。
	q.Page = 4
	items, total, err = r.List(ctx, q)
	require.NoError(t, err)
	assert.Len(t, items, 0)
	assert.Equal(t, int64(5), total)

	// 降順
	q = defaultQuery()
	q.SortColumn = "name"
	q.SortDesc = true
	items, _, err = r.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, items, 5)
	assert.Equal(t, "E", items[0].Name)
	assert.Equal(t, "A", items[4].Name)
}

func TestProductGormRepository_FindActiveByID(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	active := seedProduct(t, db, "Visible", "", 10, 1, nil, true)
	hidden := seedProduct(t, db, "Hidden", "", 10, 1, nil, false)

	got, err := r.FindActiveByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, active.ID, got.ID)

	_, err = r.FindActiveByID(ctx, hidden.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	_, err = r.FindActiveByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	// 状態を問わない取得なら停止済みも見える
	got, err = r.FindByID(ctx, hidden.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestProductGormRepository_ExistsByName_ExactMatch(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	seedProduct(t, db, "World Atlas", "", 10, 1, nil, true)

	ok, err := r.ExistsByName(ctx, "World Atlas")
	require.NoError(t, err)
	assert.True(t, ok)

	// 完全一致のみ（部分一致・別ケースはヒットしない）
	ok, err = r.ExistsByName(ctx, "Atlas")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductGormRepository_Create_DuplicateNameIsConflict(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	first := seedProduct(t, db, "World Atlas", "", 10, 1, nil, true)
	_ = first

	dup := seedableProduct("World Atlas")
	_, err := r.Create(ctx, dup)
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestProductGormRepository_Update_PartialPatch(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	books := seedCategory(t, db, "Books", true)
	p := seedProduct(t, db, "World Atlas", "old description", 34.99, 40, &books.ID, true)

	stock := int64(5)
	updated, err := r.Update(ctx, p.ID, repo.ProductPatch{Stock: &stock})
	require.NoError(t, err)

	// 指定したフィールドだけ変わる
	assert.Equal(t, int64(5), updated.Stock)
	assert.Equal(t, "World Atlas", updated.Name)
	assert.Equal(t, "old description", updated.Description)
	assert.InDelta(t, 34.99, updated.Price, 0.001)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, books.ID, *updated.CategoryID)

	// 空パッチは現状の行をそのまま返す
	same, err := r.Update(ctx, p.ID, repo.ProductPatch{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), same.Stock)

	// 存在しないIDは404相当
	_, err = r.Update(ctx, "no-such-id", repo.ProductPatch{Stock: &stock})
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestProductGormRepository_Update_DuplicateNameIsConflict(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	seedProduct(t, db, "World Atlas", "", 10, 1, nil, true)
	p := seedProduct(t, db, "Garden Shovel", "", 10, 1, nil, true)

	taken := "World Atlas"
	_, err := r.Update(ctx, p.ID, repo.ProductPatch{Name: &taken})
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestProductGormRepository_SoftDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	r := infra.NewProductGormRepository(db)

	p := seedProduct(t, db, "World Atlas", "", 10, 1, nil, true)

	now := time.Now()
	require.NoError(t, r.SoftDelete(ctx, p.ID, now))

	// 行は残るがフラグが落ち、deleted_atが入る
	got, err := r.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.DeletedAt)

	// 一覧からも見えない
	items, total, err := r.List(ctx, defaultQuery())
	require.NoError(t, err)
	assert.Len(t, items, 0)
	assert.Equal(t, int64(0), total)

	// 2回目の削除は404相当
	assert.ErrorIs(t, r.SoftDelete(ctx, p.ID, now), repo.ErrNotFound)

	// 存在しないIDも404相当
	assert.ErrorIs(t, r.SoftDelete(ctx, "no-such-id", now), repo.ErrNotFound)
}
