package admin

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

type Deps struct {
	Refresh func(ctx context.Context) error
}

func MapControllers(app *fiber.App, baseURL string, deps Deps) {
	admin := app.Group(baseURL)
	{
		admin.Post("/refresh", func(c *fiber.Ctx) error {
			return adminTriggerFeedRefresh(c, deps)
		})
	}
}
