package controller

import (
	"errors"

	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/pkg/serverutils"
	"gsu-chatbot-be/internal/service"
	"gsu-chatbot-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type catalogController struct {
	catalogService service.ICatalogService
	adminAuth      fiber.Handler
}

// NewCatalogController guards ingestion with adminAuth. Search is public.
func NewCatalogController(catalogService service.ICatalogService, adminAuth fiber.Handler) ICatalogController {
	return &catalogController{
		catalogService: catalogService,
		adminAuth:      adminAuth,
	}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog")
	h.Get("/search", c.Search)
	if c.adminAuth != nil {
		h.Post("/documents", c.adminAuth, c.Ingest)
	} else {
		h.Post("/documents", c.Ingest)
	}
}

func (c *catalogController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.Ingest(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for ingestion", res))
}

func (c *catalogController) Search(ctx *fiber.Ctx) error {
	res, err := c.catalogService.Search(ctx.UserContext(), ctx.Query("q"), ctx.QueryInt("topK", 3))
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuery) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Query parameter q is required"))
		}
		if llm.IsQuotaExceeded(err) {
			return writeProviderError(ctx, err)
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Catalog search", res))
}
