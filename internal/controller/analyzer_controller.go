package controller

import (
	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAnalyzerController interface {
	RegisterRoutes(r fiber.Router)
	AnalyzePage(ctx *fiber.Ctx) error
	SuggestRewrite(ctx *fiber.Ctx) error
}

type analyzerController struct {
	analyzerService service.IAnalyzerService
}

func NewAnalyzerController(analyzerService service.IAnalyzerService) IAnalyzerController {
	return &analyzerController{
		analyzerService: analyzerService,
	}
}

func (c *analyzerController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/analyzer/v1")
	h.Post("page", c.AnalyzePage)
	h.Post("rewrite", c.SuggestRewrite)
}

func (c *analyzerController) AnalyzePage(ctx *fiber.Ctx) error {
	var req dto.AnalyzePageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.analyzerService.AnalyzePage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success analyze page", res))
}

func (c *analyzerController) SuggestRewrite(ctx *fiber.Ctx) error {
	var req dto.RewriteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.analyzerService.SuggestRewrite(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success suggest rewrite", res))
}
