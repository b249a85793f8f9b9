package controller

import (
	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	ProcessText(ctx *fiber.Ctx) error
	ProcessImage(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("process-text", c.ProcessText)
	h.Post("process-image", c.ProcessImage)
	h.Get("stats", c.Stats)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

func (c *noteController) ProcessText(ctx *fiber.Ctx) error {
	var req dto.ProcessTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.ProcessText(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process text", res))
}

func (c *noteController) ProcessImage(ctx *fiber.Ctx) error {
	var req dto.ProcessImageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.ProcessImage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process image", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	res, err := c.noteService.Show(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note", res))
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	res, err := c.noteService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list notes", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	if err := c.noteService.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete note", nil))
}

func (c *noteController) Stats(ctx *fiber.Ctx) error {
	res, err := c.noteService.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show note stats", res))
}
