package controller

import (
	"canvas-studio-be/internal/dto"
	"canvas-studio-be/internal/pkg/serverutils"
	"canvas-studio-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICanvasController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	AddPreview(ctx *fiber.Ctx) error
	SetPreview(ctx *fiber.Ctx) error
	UpdatePreview(ctx *fiber.Ctx) error
	RemovePreview(ctx *fiber.Ctx) error
	ReorderPreviews(ctx *fiber.Ctx) error
	SetPage(ctx *fiber.Ctx) error
	SetTitle(ctx *fiber.Ctx) error
	SetInitialized(ctx *fiber.Ctx) error
}

type canvasController struct {
	service service.ICanvasService
}

func NewCanvasController(service service.ICanvasService) ICanvasController {
	return &canvasController{service: service}
}

func (c *canvasController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/canvas/v1")
	h.Get(":canvasId", c.Show)
	h.Delete(":canvasId", c.Delete)
	h.Post(":canvasId/previews", c.AddPreview)
	h.Post(":canvasId/previews/reorder", c.ReorderPreviews)
	h.Put(":canvasId/previews/:nodeId", c.SetPreview)
	h.Patch(":canvasId/previews/:nodeId", c.UpdatePreview)
	h.Delete(":canvasId/previews/:nodeId", c.RemovePreview)
	h.Put(":canvasId/page", c.SetPage)
	h.Put(":canvasId/title", c.SetTitle)
	h.Put(":canvasId/initialized", c.SetInitialized)
}

func (c *canvasController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.GetConfig(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"))
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Canvas not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get canvas config", res))
}

func (c *canvasController) Delete(ctx *fiber.Ctx) error {
	err := c.service.DeleteCanvasData(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete canvas data", nil))
}

func (c *canvasController) AddPreview(ctx *fiber.Ctx) error {
	var req dto.AddNodePreviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.service.AddNodePreview(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success add node preview", nil))
}

func (c *canvasController) SetPreview(ctx *fiber.Ctx) error {
	var req dto.SetNodePreviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = ctx.Params("nodeId")

	err := c.service.SetNodePreview(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success set node preview", nil))
}

func (c *canvasController) UpdatePreview(ctx *fiber.Ctx) error {
	var req dto.UpdateNodePreviewRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = ctx.Params("nodeId")

	err := c.service.UpdateNodePreview(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success update node preview", nil))
}

func (c *canvasController) RemovePreview(ctx *fiber.Ctx) error {
	err := c.service.RemoveNodePreview(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"), ctx.Params("nodeId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success remove node preview", nil))
}

func (c *canvasController) ReorderPreviews(ctx *fiber.Ctx) error {
	var req dto.ReorderNodePreviewsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.service.ReorderNodePreviews(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reorder node previews", nil))
}

func (c *canvasController) SetPage(ctx *fiber.Ctx) error {
	var req dto.SetCanvasPageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.service.SetCanvasPage(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"), req.PageId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success set canvas page", nil))
}

func (c *canvasController) SetTitle(ctx *fiber.Ctx) error {
	var req dto.SetCanvasTitleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.service.SetCanvasTitle(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"), req.Title)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success set canvas title", nil))
}

func (c *canvasController) SetInitialized(ctx *fiber.Ctx) error {
	var req dto.SetCanvasInitializedRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err := c.service.SetCanvasInitialized(ctx.Context(), workspaceID(ctx), ctx.Params("canvasId"), *req.Initialized)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success set canvas initialized", nil))
}
