package controller

import (
	"errors"

	"gsu-chatbot-be/internal/constant"
	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/pkg/serverutils"
	"gsu-chatbot-be/internal/service"
	"gsu-chatbot-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

const invalidMessageReply = "Message is required and must be a non-empty string"

type IChatbotController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	QuickAction(ctx *fiber.Ctx) error
}

type chatbotController struct {
	chatbotService service.IChatbotService
}

func NewChatbotController(chatbotService service.IChatbotService) IChatbotController {
	return &chatbotController{
		chatbotService: chatbotService,
	}
}

func (c *chatbotController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/message", c.SendMessage)
	h.Get("/status", c.Status)
	h.Post("/quick-actions", c.QuickAction)
}

func (c *chatbotController) SendMessage(ctx *fiber.Ctx) error {
	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatbotService.SendMessage(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMessage) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, invalidMessageReply))
		}
		return writeProviderError(ctx, err)
	}

	if res.ErrorType == string(llm.KindQuotaExceeded) {
		return ctx.Status(fiber.StatusTooManyRequests).
			JSON(serverutils.ErrorResponseWithData(fiber.StatusTooManyRequests, constant.QuotaErrorMessage, res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Message processed", res))
}

func (c *chatbotController) Status(ctx *fiber.Ctx) error {
	res, err := c.chatbotService.Status(ctx.UserContext())
	if err != nil {
		return ctx.Status(fiber.StatusServiceUnavailable).
			JSON(serverutils.ErrorResponseWithData(fiber.StatusServiceUnavailable, constant.ChatErrorReply, res))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat service is online", res))
}

func (c *chatbotController) QuickAction(ctx *fiber.Ctx) error {
	var req dto.QuickActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.chatbotService.QuickAction(ctx.UserContext(), &req)
	return ctx.JSON(serverutils.SuccessResponse("Quick action", res))
}

type providerErrorData struct {
	ErrorType string `json:"errorType"`
	Response  string `json:"response"`
}

// writeProviderError reports model failures. Quota exhaustion is the only
// case the client can act on, so it alone gets a distinct status.
func writeProviderError(ctx *fiber.Ctx, err error) error {
	var llmErr *llm.Error
	if !errors.As(err, &llmErr) {
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, constant.InternalReply))
	}

	switch llmErr.Kind {
	case llm.KindQuotaExceeded:
		return ctx.Status(fiber.StatusTooManyRequests).
			JSON(serverutils.ErrorResponseWithData(fiber.StatusTooManyRequests, constant.QuotaErrorMessage,
				providerErrorData{ErrorType: string(llmErr.Kind), Response: constant.QuotaErrorMessage}))
	case llm.KindInvalidAPIKey:
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(serverutils.ErrorResponseWithData(fiber.StatusInternalServerError, constant.InvalidKeyReply,
				providerErrorData{ErrorType: string(llmErr.Kind), Response: constant.InvalidKeyReply}))
	default:
		return ctx.Status(fiber.StatusInternalServerError).
			JSON(serverutils.ErrorResponseWithData(fiber.StatusInternalServerError, constant.ChatErrorReply,
				providerErrorData{ErrorType: string(llmErr.Kind), Response: constant.ChatErrorReply}))
	}
}
