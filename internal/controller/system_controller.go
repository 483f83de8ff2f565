package controller

import (
	"smartdraft-be/internal/pkg/serverutils"
	"smartdraft-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISystemController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
}

type systemController struct {
	systemService service.ISystemService
}

func NewSystemController(systemService service.ISystemService) ISystemController {
	return &systemController{
		systemService: systemService,
	}
}

func (c *systemController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/draft/v1")
	h.Get("status", c.Status)
	h.Post("clear-cache", c.ClearCache)
}

func (c *systemController) Status(ctx *fiber.Ctx) error {
	res, err := c.systemService.Status(ctx.Context(), ctx.Query("model"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success system status", res))
}

func (c *systemController) ClearCache(ctx *fiber.Ctx) error {
	if err := c.systemService.ClearCache(ctx.Context()); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear cache", nil))
}
