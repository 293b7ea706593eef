package main

import (
	"log"
	"os"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/infra/db"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 開発用のシードデータ投入。
// 商品とカテゴリを入れ直し、管理者ユーザーを用意する。
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.AuditLog{},
	); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	log.Println("seeding database...")

	// 既存の商品・カテゴリは消してから入れ直す
	session := gormDB.Session(&gorm.Session{AllowGlobalUpdate: true})
	if err := session.Delete(&model.Product{}).Error; err != nil {
		log.Fatalf("wipe products failed: %v", err)
	}
	if err := session.Delete(&model.Category{}).Error; err != nil {
		log.Fatalf("wipe categories failed: %v", err)
	}

	now := time.Now()

	categories := []model.Category{
		{ID: uuid.NewString(), Name: "Electronics", Description: "Electronic devices and gadgets", IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Clothing", Description: "Apparel and fashion items", IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Books", Description: "Physical and digital books", IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Home & Garden", Description: "Home improvement and garden supplies", IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Sports", Description: "Sports equipment and accessories", IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
	if err := gormDB.Create(&categories).Error; err != nil {
		log.Fatalf("seed categories failed: %v", err)
	}
	log.Printf("created %d categories", len(categories))

	products := []model.Product{
		{ID: uuid.NewString(), Name: `Laptop Pro 15"`, Description: "High-performance laptop with 16GB RAM and 512GB SSD", Price: 1299.99, Stock: 25, CategoryID: &categories[0].ID, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Wireless Mouse", Description: "Ergonomic wireless mouse with precision tracking", Price: 29.99, Stock: 100, CategoryID: &categories[0].ID, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "USB-C Hub", Description: "7-in-1 USB-C hub with HDMI and SD card reader", Price: 49.99, Stock: 50, CategoryID: &categories[0].ID, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Cotton T-Shirt", Description: "100% organic cotton comfortable t-shirt", Price: 19.99, Stock: 200, CategoryID: &categories[1].ID, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Denim Jeans", Description: "Classic fit denim jeans", Price: 59.99, Stock: 80, CategoryID: &categories[1].ID, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "World Atlas", Description: "Illustrated atlas of the world", Price: 34.99, Stock: 40, CategoryID: &categories[2].ID, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Garden Shovel", Description: "Sturdy steel garden shovel", Price: 24.99, Stock: 60, CategoryID: &categories[3].ID, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Name: "Yoga Mat", Description: "Non-slip exercise yoga mat", Price: 22.99, Stock: 150, CategoryID: &categories[4].ID, IsActive: true, CreatedAt: now, UpdatedAt: now},
	}
	if err := gormDB.Create(&products).Error; err != nil {
		log.Fatalf("seed products failed: %v", err)
	}
	log.Printf("created %d products", len(products))

	// 管理者ユーザー（既にあれば何もしない）
	adminEmail := getenv("ADMIN_EMAIL", "admin@example.com")
	adminPassword := getenv("ADMIN_PASSWORD", "admin123")

	var count int64
	if err := gormDB.Model(&model.User{}).Where("email = ?", adminEmail).Count(&count).Error; err != nil {
		log.Fatalf("check admin failed: %v", err)
	}
	if count == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), 10)
		if err != nil {
			log.Fatalf("hash admin password failed: %v", err)
		}
		admin := model.User{
			ID:        uuid.NewString(),
			Email:     adminEmail,
			Password:  string(hashed),
			Role:      model.RoleAdmin,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := gormDB.Create(&admin).Error; err != nil {
			log.Fatalf("seed admin failed: %v", err)
		}
		log.Printf("created admin user %s", adminEmail)
	}

	log.Println("seeding completed")
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
