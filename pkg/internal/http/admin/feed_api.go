package admin

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func adminTriggerFeedRefresh(c *fiber.Ctx, deps Deps) error {
	go func() {
		if err := deps.Refresh(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Manually triggered feed refresh failed...")
		}
	}()

	return c.SendStatus(fiber.StatusOK)
}
