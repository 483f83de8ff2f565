package controller

import (
	"smartdraft-be/internal/dto"
	"smartdraft-be/internal/pkg/serverutils"
	"smartdraft-be/internal/service"
	"smartdraft-be/pkg/errs"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	Edit(ctx *fiber.Ctx) error
	Export(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/draft/v1")
	h.Get("sessions", c.List)
	h.Get("session/:id", c.Show)
	h.Put("session/:id", c.Save)
	h.Patch("session/:id/edit", c.Edit)
	h.Get("session/:id/export", c.Export)
}

func (c *sessionController) List(ctx *fiber.Ctx) error {
	res, err := c.sessionService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Show(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Save(ctx *fiber.Ctx) error {
	var req dto.SaveSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.Wrap(errs.KindMalformedRequest, "invalid request body", err)
	}

	res, err := c.sessionService.Save(ctx.Context(), ctx.Params("id"), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save session", res))
}

func (c *sessionController) Edit(ctx *fiber.Ctx) error {
	var req dto.EditSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errs.Wrap(errs.KindMalformedRequest, "invalid request body", err)
	}

	if err := c.sessionService.Edit(ctx.Context(), ctx.Params("id"), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success record edit", nil))
}

func (c *sessionController) Export(ctx *fiber.Ctx) error {
	markdown, err := c.sessionService.Export(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/markdown; charset=utf-8")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+ctx.Params("id")+`.md"`)
	return ctx.SendString(markdown)
}
