package controller

import (
	"sort"

	"studybuddy-be/internal/dto"
	"studybuddy-be/internal/pkg/serverutils"
	"studybuddy-be/pkg/capability"

	"github.com/gofiber/fiber/v2"
)

type ICapabilityController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
}

type capabilityController struct {
	registry *capability.Registry
}

func NewCapabilityController(registry *capability.Registry) ICapabilityController {
	return &capabilityController{
		registry: registry,
	}
}

func (c *capabilityController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/capabilities/v1")
	h.Get("status", c.Status)
}

// Status probes every registered capability kind. Probe errors show up as
// unavailable rather than failing the whole endpoint.
func (c *capabilityController) Status(ctx *fiber.Ctx) error {
	kinds := c.registry.Kinds()
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	res := dto.CapabilityStatusResponse{
		Capabilities: make([]dto.CapabilityStatus, 0, len(kinds)),
	}
	for _, kind := range kinds {
		provider := c.registry.Resolve(kind)
		if provider == nil {
			continue
		}

		availability, err := provider.Availability(ctx.Context(), capability.AvailabilityOptions{})
		if err != nil {
			availability = capability.AvailabilityUnavailable
		}
		res.Capabilities = append(res.Capabilities, dto.CapabilityStatus{
			Kind:         string(kind),
			Availability: string(availability),
			Usable:       availability.Usable(),
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show capability status", res))
}
