package controller

import (
	"canvas-studio-be/internal/dto"
	"canvas-studio-be/internal/pkg/serverutils"
	"canvas-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IStateController interface {
	RegisterRoutes(r fiber.Router)
	GetFlags(ctx *fiber.Ctx) error
	UpdateFlags(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type stateController struct {
	service service.IStateService
}

func NewStateController(service service.IStateService) IStateController {
	return &stateController{service: service}
}

func (c *stateController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/state/v1")
	h.Get("flags", c.GetFlags)
	h.Put("flags", c.UpdateFlags)
	h.Post("clear", c.Clear)
}

func (c *stateController) GetFlags(ctx *fiber.Ctx) error {
	res, err := c.service.GetFlags(ctx.Context(), workspaceID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get flags", res))
}

func (c *stateController) UpdateFlags(ctx *fiber.Ctx) error {
	var req dto.UpdateFlagsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdateFlags(ctx.Context(), workspaceID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update flags", res))
}

func (c *stateController) Clear(ctx *fiber.Ctx) error {
	err := c.service.ClearState(ctx.Context(), workspaceID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear state", nil))
}
