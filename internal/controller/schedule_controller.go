package controller

import (
	"errors"
	"io"

	"gsu-chatbot-be/internal/constant"
	"gsu-chatbot-be/internal/dto"
	"gsu-chatbot-be/internal/pkg/serverutils"
	"gsu-chatbot-be/internal/service"
	"gsu-chatbot-be/pkg/export"
	"gsu-chatbot-be/pkg/llm"
	"gsu-chatbot-be/pkg/pipeline"

	"github.com/gofiber/fiber/v2"
)

const (
	notInPipelineReply   = "Please start schedule planning before uploading a transcript"
	notProcessingReply   = "No transcript is waiting to be processed for this session"
	uploadFailedReply    = "File upload failed. Please try again."
	extractionFailedText = "Text extraction failed. Please make sure the document contains readable text, or type 'skip' to continue without a transcript."
	noScheduleReply      = "No schedule found for this session"
	invalidFormatReply   = "Invalid format. Use pdf, notion, markdown, csv or html."
)

type IScheduleController interface {
	RegisterRoutes(r fiber.Router)
	UploadTranscript(ctx *fiber.Ctx) error
	GetPipelineState(ctx *fiber.Ctx) error
	UpdatePipelineState(ctx *fiber.Ctx) error
	GenerateSchedule(ctx *fiber.Ctx) error
	ExportSchedule(ctx *fiber.Ctx) error
}

type scheduleController struct {
	scheduleService   service.IScheduleService
	transcriptService service.ITranscriptService
}

func NewScheduleController(scheduleService service.IScheduleService, transcriptService service.ITranscriptService) IScheduleController {
	return &scheduleController{
		scheduleService:   scheduleService,
		transcriptService: transcriptService,
	}
}

func (c *scheduleController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Post("/upload-transcript", c.UploadTranscript)
	h.Get("/pipeline-state/:sessionId", c.GetPipelineState)
	h.Post("/pipeline-state/:sessionId", c.UpdatePipelineState)
	h.Post("/generate-schedule", c.GenerateSchedule)
	h.Get("/schedule-export/:sessionId", c.ExportSchedule)
}

func (c *scheduleController) UploadTranscript(ctx *fiber.Ctx) error {
	sessionId := ctx.FormValue("sessionId")
	if sessionId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "sessionId is required"))
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "No file uploaded"))
	}
	f, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	res, err := c.transcriptService.Upload(ctx.UserContext(), service.UploadTranscriptInput{
		SessionId:   sessionId,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyUpload):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "No file uploaded"))
		case errors.Is(err, pipeline.ErrNotInPipeline):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, notInPipelineReply))
		case errors.Is(err, service.ErrUploadFailed):
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(fiber.StatusInternalServerError, uploadFailedReply))
		case errors.Is(err, service.ErrExtractionFailed):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(fiber.StatusUnprocessableEntity, extractionFailedText))
		}
		return err
	}
	return c.scheduleResult(ctx, "Transcript processed", res)
}

func (c *scheduleController) GetPipelineState(ctx *fiber.Ctx) error {
	res, err := c.scheduleService.GetPipelineState(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pipeline state", res))
}

func (c *scheduleController) UpdatePipelineState(ctx *fiber.Ctx) error {
	var req dto.UpdatePipelineStateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.scheduleService.UpdatePipelineState(ctx.UserContext(), ctx.Params("sessionId"), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidState) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, err.Error()))
		}
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Pipeline state updated", res))
}

func (c *scheduleController) GenerateSchedule(ctx *fiber.Ctx) error {
	var req dto.GenerateScheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.scheduleService.GenerateSchedule(ctx.UserContext(), &req)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotProcessing) {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, notProcessingReply))
		}
		return err
	}
	return c.scheduleResult(ctx, "Schedule generated", res)
}

func (c *scheduleController) ExportSchedule(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")
	doc, err := c.scheduleService.Export(ctx.UserContext(), sessionId, ctx.Query("format"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoSchedule):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, noScheduleReply))
		case errors.Is(err, export.ErrUnknownFormat):
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(fiber.StatusBadRequest, invalidFormatReply))
		}
		return err
	}

	ctx.Attachment(doc.Filename(sessionId))
	ctx.Set(fiber.HeaderContentType, doc.ContentType)
	return ctx.Send(doc.Content)
}

// scheduleResult answers 429 when generation ran out of quota so clients can
// show billing guidance; every other outcome, including failures the
// pipeline already apologized for, is a 200.
func (c *scheduleController) scheduleResult(ctx *fiber.Ctx, message string, res *dto.ScheduleResultResponse) error {
	if res.ErrorType == string(llm.KindQuotaExceeded) {
		return ctx.Status(fiber.StatusTooManyRequests).
			JSON(serverutils.ErrorResponseWithData(fiber.StatusTooManyRequests, constant.QuotaErrorMessage, res))
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}
