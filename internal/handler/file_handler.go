package handler

import (
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// 画像ファイルのアップロードと配信。
type FileHandler struct {
	uploadDir string
}

// DI
func NewFileHandler(uploadDir string) *FileHandler {
	return &FileHandler{uploadDir: uploadDir}
}

// 許可する拡張子（画像のみ）
var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
}

// 最大5MB
const maxUploadSize = 5 * 1024 * 1024

type uploadResponse struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}

// UploadはPOST /files/uploadのハンドラ。
// multipartの"file"フィールドを受け取り、一意な名前で保存する。
func (h *FileHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeErrorMessage(c, http.StatusBadRequest, "file required")
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		return writeErrorMessage(c, http.StatusBadRequest, "only image files are allowed (jpg, jpeg, png, gif)")
	}

	if fh.Size > maxUploadSize {
		return writeErrorMessage(c, http.StatusBadRequest, "file too large (max 5MB)")
	}

	src, err := fh.Open()
	if err != nil {
		return writeErrorMessage(c, http.StatusInternalServerError, "internal error")
	}
	defer src.Close()

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		return writeErrorMessage(c, http.StatusInternalServerError, "internal error")
	}

	// タイムスタンプ＋乱数で一意なファイル名にする
	filename := fmt.Sprintf("file-%d-%d%s", time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)

	dst, err := os.Create(filepath.Join(h.uploadDir, filename))
	if err != nil {
		return writeErrorMessage(c, http.StatusInternalServerError, "internal error")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return writeErrorMessage(c, http.StatusInternalServerError, "internal error")
	}

	return writeData(c, http.StatusOK, uploadResponse{
		Filename: filename,
		Path:     "/api/files/" + filename,
	})
}

// ServeはGET /files/:filenameのハンドラ。
func (h *FileHandler) Serve(c echo.Context) error {
	filename := c.Param("filename")

	// パストラバーサル対策。ベース名以外は受け付けない。
	if filename == "" || filename != filepath.Base(filename) {
		return writeErrorMessage(c, http.StatusBadRequest, "invalid filename")
	}

	path := filepath.Join(h.uploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		return writeErrorMessage(c, http.StatusNotFound, "file not found")
	}

	return c.File(path)
}
