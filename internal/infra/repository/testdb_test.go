package repository_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"app/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テスト用のインメモリDB。テストごとに独立したDBを持つ。
// TranslateErrorは本番（postgres）と同じ設定にして一意制約の変換を通す。
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.AuditLog{},
	))
	return db
}

func seedCategory(t *testing.T, db *gorm.DB, name string, active bool) model.Category {
	t.Helper()
	now := time.Now()
	c := model.Category{
		ID:        uuid.NewString(),
		Name:      name,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// DBに入れずに組み立てだけする（Createのエラー系テスト用）
func seedableCategory(name string, now time.Time) model.Category {
	return model.Category{
		ID:        uuid.NewString(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func seedableProduct(name string) model.Product {
	now := time.Now()
	return model.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Price:     10,
		Stock:     1,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func seedProduct(t *testing.T, db *gorm.DB, name string, description string, price float64, stock int64, categoryID *string, active bool) model.Product {
	t.Helper()
	now := time.Now()
	p := model.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		CategoryID:  categoryID,
		IsActive:    active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
