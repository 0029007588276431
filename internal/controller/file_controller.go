package controller

import (
	"errors"
	"path/filepath"

	"gsu-chatbot-be/internal/pkg/serverutils"
	"gsu-chatbot-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
)

type IFileController interface {
	RegisterRoutes(r fiber.Router)
	Download(ctx *fiber.Ctx) error
}

type fileController struct {
	files  storage.FileStore
	bucket string
}

func NewFileController(files storage.FileStore, bucket string) IFileController {
	return &fileController{files: files, bucket: bucket}
}

func (c *fileController) RegisterRoutes(r fiber.Router) {
	r.Get("/files/:bucket/*", c.Download)
}

// Download streams a stored object when the signed token matches its key.
func (c *fileController) Download(ctx *fiber.Ctx) error {
	if ctx.Params("bucket") != c.bucket {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "File not found"))
	}
	key := ctx.Params("*")

	if err := c.files.Verify(key, ctx.Query("token")); err != nil {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(fiber.StatusForbidden, "Invalid or expired link"))
	}

	reader, err := c.files.Open(key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "File not found"))
		}
		return err
	}

	ctx.Type(filepath.Ext(key))
	return ctx.SendStream(reader)
}
