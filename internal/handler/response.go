package handler

import (
	"net/http"
	"time"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 標準成功エンベロープ
type successEnvelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
	Path      string      `json:"path"`
}

// 標準エラーエンベロープ
type errorEnvelope struct {
	Success    bool     `json:"success"`
	StatusCode int      `json:"statusCode"`
	Timestamp  string   `json:"timestamp"`
	Path       string   `json:"path"`
	Message    string   `json:"message"`
	Details    []string `json:"details,omitempty"`
}

func writeData(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, successEnvelope{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request().URL.Path,
	})
}

func writeErrorMessage(c echo.Context, status int, msg string, details ...string) error {
	return c.JSON(status, errorEnvelope{
		Success:    false,
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request().URL.Path,
		Message:    msg,
		Details:    details,
	})
}

// usecaseの型付きエラーをエンベロープに正規化する。
// 型が付いていないエラーは内部情報を出さずに500へ落とす。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return writeErrorMessage(c, he.Status, he.Message)
	}

	// 500
	return writeErrorMessage(c, http.StatusInternalServerError, "internal error")
}
