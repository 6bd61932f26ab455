package controller

import (
	"fmt"

	"ai-studymate-be/internal/dto"
	"ai-studymate-be/internal/pkg/serverutils"
	"ai-studymate-be/internal/service"
	"ai-studymate-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type IStudyController interface {
	RegisterRoutes(r fiber.Router)
	GenerateNotes(ctx *fiber.Ctx) error
	GenerateQuiz(ctx *fiber.Ctx) error
	DownloadArtifact(ctx *fiber.Ctx) error
}

type studyController struct {
	studyService service.IStudyService
}

func NewStudyController(studyService service.IStudyService) IStudyController {
	return &studyController{
		studyService: studyService,
	}
}

func (c *studyController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/study/v1")
	h.Post("notes", c.GenerateNotes)
	h.Post("quiz", c.GenerateQuiz)
	h.Get("artifact/:kind/download", c.DownloadArtifact)
}

func (c *studyController) GenerateNotes(ctx *fiber.Ctx) error {
	res, err := c.studyService.GenerateNotes(ctx.Context(), serverutils.SessionID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Notes generated", res))
}

func (c *studyController) GenerateQuiz(ctx *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return apperror.InputValidation("invalid request body")
		}
	}

	res, err := c.studyService.GenerateQuiz(ctx.Context(), serverutils.SessionID(ctx), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Quiz generated", res))
}

func (c *studyController) DownloadArtifact(ctx *fiber.Ctx) error {
	kind := ctx.Params("kind")
	content, filename, err := c.studyService.Artifact(ctx.Context(), serverutils.SessionID(ctx), kind)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	return ctx.SendString(content)
}
