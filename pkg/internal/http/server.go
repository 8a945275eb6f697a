package http

import (
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/socialconnect/feedsync/pkg/internal/http/admin"
	"github.com/socialconnect/feedsync/pkg/internal/http/api"
)

type App struct {
	app *fiber.App
}

// NewServer builds the local surface a UI layer talks to. It renders nothing;
// it only exposes the feed store and the gateway operations.
func NewServer(deps api.Deps) *App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ServerHeader:          "SocialConnect.FeedSync",
		AppName:               "SocialConnect.FeedSync",
		JSONEncoder:           jsoniter.Marshal,
		JSONDecoder:           jsoniter.Unmarshal,
	})

	api.MapAPIs(app, "/api", deps)
	admin.MapControllers(app, "/cgi", admin.Deps{Refresh: deps.Refresh})

	return &App{app}
}

func (v *App) Listen() {
	if err := v.app.Listen(viper.GetString("bind")); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when starting the local server.")
	}
}

func (v *App) Shutdown() error {
	return v.app.Shutdown()
}
