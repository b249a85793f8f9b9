package serverutils

import (
	"errors"
	"log"

	"studybuddy-be/pkg/capability"
	"studybuddy-be/pkg/study/notes"
	"studybuddy-be/pkg/study/pack"
	"studybuddy-be/pkg/study/quiz"

	"github.com/gofiber/fiber/v2"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotFound is returned by services when a requested record does not
// exist in the history store.
var ErrNotFound = goerr.New("record not found")

// ErrorHandlerMiddleware turns service errors into JSON error envelopes.
// Domain errors map to client statuses; everything else is a 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := statusFor(err)
		if code == fiber.StatusInternalServerError {
			log.Printf("unhandled error on %s %s: %v", ctx.Method(), ctx.Path(), err)
			return ctx.Status(code).JSON(ErrorResponse(code, "Internal server error"))
		}
		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}

func statusFor(err error) int {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, notes.ErrInputTooShort),
		errors.Is(err, notes.ErrExtractedTextTooShort),
		errors.Is(err, pack.ErrNoReadableText):
		return fiber.StatusBadRequest
	case errors.Is(err, quiz.ErrNoConceptsAvailable),
		errors.Is(err, quiz.ErrNoQuestionsGenerated),
		errors.Is(err, notes.ErrSummarizationFailed):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, capability.ErrImageCapabilityUnavailable):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
