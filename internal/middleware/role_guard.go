package middleware

import (
	"net/http"

	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// RequireRolesはcontextのロールが要求ロールに含まれるか確認する。
// 要求ロールが空なら制限なし。ルート登録側で必要ロールを宣言して使う。
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(roles) == 0 {
				return next(c)
			}

			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return unauthorized(c)
			}

			for _, want := range roles {
				if model.Role(role) == want {
					return next(c)
				}
			}

			return writeEnvelope(c, http.StatusForbidden, "forbidden")
		}
	}
}
