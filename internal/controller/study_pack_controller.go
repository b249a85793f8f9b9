package controller

import (
	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStudyPackController interface {
	RegisterRoutes(r fiber.Router)
	Build(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type studyPackController struct {
	packService service.IStudyPackService
}

func NewStudyPackController(packService service.IStudyPackService) IStudyPackController {
	return &studyPackController{
		packService: packService,
	}
}

func (c *studyPackController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/packs/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("build", c.Build)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *studyPackController) Build(ctx *fiber.Ctx) error {
	var req dto.BuildPackRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.packService.BuildFromCapture(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success build study pack", res))
}

func (c *studyPackController) Show(ctx *fiber.Ctx) error {
	res, err := c.packService.Show(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show study pack", res))
}

func (c *studyPackController) List(ctx *fiber.Ctx) error {
	res, err := c.packService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list study packs", res))
}

func (c *studyPackController) Delete(ctx *fiber.Ctx) error {
	if err := c.packService.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete study pack", nil))
}
