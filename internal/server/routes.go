package server

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

// 書き込み系の必要ロール。ここで宣言したルートだけがガードされる。
var adminOnly = []model.Role{model.RoleAdmin}

// RegisterRoutesは全ルートを/api配下に登録する。
// 各操作の必要ロールはこの表で一覧できるようにしておく。
func RegisterRoutes(
	e *echo.Echo,
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	categoryH *handler.CategoryHandler,
	fileH *handler.FileHandler,
) {
	api := e.Group("/api")

	authn := middleware.AuthJWT(cfg)
	admin := middleware.RequireRoles(adminOnly...)

	// auth
	api.POST("/auth/register", authH.Register)
	api.POST("/auth/login", authH.Login, loginRateLimiter())
	api.GET("/auth/profile", authH.Profile, authn)

	// products（読み取り公開、書き込みADMIN）
	api.GET("/products", productH.List)
	api.GET("/products/:id", productH.Detail)
	api.POST("/products", productH.Create, authn, admin)
	api.PATCH("/products/:id", productH.Update, authn, admin)
	api.DELETE("/products/:id", productH.Delete, authn, admin)

	// categories（読み取り公開、書き込みADMIN）
	api.GET("/categories", categoryH.List)
	api.GET("/categories/:id", categoryH.Detail)
	api.POST("/categories", categoryH.Create, authn, admin)
	api.PATCH("/categories/:id", categoryH.Update, authn, admin)
	api.DELETE("/categories/:id", categoryH.Delete, authn, admin)

	// files
	api.POST("/files/upload", fileH.Upload)
	api.GET("/files/:filename", fileH.Serve)
}
