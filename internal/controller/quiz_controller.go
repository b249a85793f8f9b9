package controller

import (
	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuizController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	SubmitAnswer(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
}

type quizController struct {
	quizService service.IQuizService
}

func NewQuizController(quizService service.IQuizService) IQuizController {
	return &quizController{
		quizService: quizService,
	}
}

func (c *quizController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/quizzes/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("generate", c.Generate)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Get(":id/progress", c.Progress)
	h.Post(":id/answers", c.SubmitAnswer)
	h.Delete(":id", c.Delete)
}

func (c *quizController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate quiz", res))
}

func (c *quizController) Show(ctx *fiber.Ctx) error {
	res, err := c.quizService.Show(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show quiz", res))
}

func (c *quizController) List(ctx *fiber.Ctx) error {
	res, err := c.quizService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list quizzes", res))
}

func (c *quizController) Delete(ctx *fiber.Ctx) error {
	if err := c.quizService.Delete(ctx.Context(), ctx.Params("id")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete quiz", nil))
}

func (c *quizController) SubmitAnswer(ctx *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.QuizId = ctx.Params("id")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.SubmitAnswer(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit answer", res))
}

func (c *quizController) Progress(ctx *fiber.Ctx) error {
	res, err := c.quizService.GetProgress(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show quiz progress", res))
}
