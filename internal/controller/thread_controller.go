package controller

import (
	"canvas-studio-be/internal/dto"
	"canvas-studio-be/internal/pkg/serverutils"
	"canvas-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IThreadController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Add(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	RemoveByNode(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type threadController struct {
	service service.IThreadService
}

func NewThreadController(service service.IThreadService) IThreadController {
	return &threadController{service: service}
}

func (c *threadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/thread/v1")
	h.Get("messages", c.GetAll)
	h.Post("messages", c.Add)
	h.Post("messages/clear", c.Clear)
	h.Delete("messages/:id", c.Remove)
	h.Delete("messages/node/:nodeId", c.RemoveByNode)
}

func (c *threadController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetMessages(ctx.Context(), workspaceID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get thread messages", res))
}

func (c *threadController) Add(ctx *fiber.Ctx) error {
	var req dto.AddThreadMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.AddMessage(ctx.Context(), workspaceID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success add thread message", res))
}

func (c *threadController) Remove(ctx *fiber.Ctx) error {
	err := c.service.RemoveMessage(ctx.Context(), workspaceID(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove thread message", nil))
}

func (c *threadController) RemoveByNode(ctx *fiber.Ctx) error {
	err := c.service.RemoveMessagesByNodeId(ctx.Context(), workspaceID(ctx), ctx.Params("nodeId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove thread messages for node", nil))
}

func (c *threadController) Clear(ctx *fiber.Ctx) error {
	err := c.service.ClearMessages(ctx.Context(), workspaceID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear thread messages", nil))
}
