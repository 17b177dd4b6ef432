package route

import (
	"context"
	"errors"
	"io"
	"time"

	"backend-routehub/internal/track"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// Limits are the boundary constraints the web layer enforces before and
// around the engine; the engine itself is agnostic to both.
type Limits struct {
	MaxUploadBytes int64
	ProcessTimeout time.Duration
}

func RegisterRoutes(r fiber.Router, svc *Service, limits Limits) {
	r.Post("/", func(c *fiber.Ctx) error {
		name := c.Query("name")
		data := c.Body()

		if file, err := c.FormFile("file"); err == nil {
			if file.Size > limits.MaxUploadBytes {
				return fiber.NewError(fiber.StatusRequestEntityTooLarge, "track file too large")
			}
			f, err := file.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			defer f.Close()
			if data, err = io.ReadAll(f); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			if name == "" {
				name = file.Filename
			}
		}

		if len(data) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "empty track upload")
		}
		if int64(len(data)) > limits.MaxUploadBytes {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge, "track file too large")
		}

		ctx, cancel := context.WithTimeout(c.Context(), limits.ProcessTimeout)
		defer cancel()

		route, err := svc.ProcessUpload(ctx, name, data)
		var parseErr *track.ParseError
		if errors.As(err, &parseErr) {
			return fiber.NewError(fiber.StatusBadRequest, parseErr.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(route)
	})

	r.Get("/", func(c *fiber.Ctx) error {
		items, err := svc.ListRoutes(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(items)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		route, err := svc.GetRoute(c.Context(), c.Params("id"))
		if errors.Is(err, pgx.ErrNoRows) {
			return fiber.NewError(fiber.StatusNotFound, "route not found")
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(route)
	})

	r.Delete("/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteRoute(c.Context(), c.Params("id")); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
