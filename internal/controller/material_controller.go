package controller

import (
	"io"

	"ai-studymate-be/internal/dto"
	"ai-studymate-be/internal/pkg/serverutils"
	"ai-studymate-be/internal/service"
	"ai-studymate-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type IMaterialController interface {
	RegisterRoutes(r fiber.Router)
	IngestText(ctx *fiber.Ctx) error
	IngestVideo(ctx *fiber.Ctx) error
	IngestDocument(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type materialController struct {
	materialService service.IMaterialService
}

func NewMaterialController(materialService service.IMaterialService) IMaterialController {
	return &materialController{
		materialService: materialService,
	}
}

func (c *materialController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/material/v1")
	h.Post("text", c.IngestText)
	h.Post("video", c.IngestVideo)
	h.Post("document", c.IngestDocument)
	h.Get("", c.Status)
}

func (c *materialController) IngestText(ctx *fiber.Ctx) error {
	var req dto.IngestTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InputValidation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.materialService.IngestText(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Material submitted", res))
}

func (c *materialController) IngestVideo(ctx *fiber.Ctx) error {
	var req dto.IngestVideoRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.InputValidation("invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.materialService.IngestVideo(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Video transcript loaded", res))
}

func (c *materialController) IngestDocument(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.InputValidation("missing 'file' form field")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperror.InputValidation("failed to open the uploaded file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return apperror.InputValidation("failed to read the uploaded file")
	}

	res, err := c.materialService.IngestDocument(ctx.Context(), serverutils.SessionID(ctx), fileHeader.Filename, content)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document submitted", res))
}

func (c *materialController) Status(ctx *fiber.Ctx) error {
	res, err := c.materialService.Status(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Material status", res))
}
