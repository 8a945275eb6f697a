package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/socialconnect/feedsync/pkg/internal/gateway"
	"github.com/socialconnect/feedsync/pkg/internal/session"
	"github.com/socialconnect/feedsync/pkg/internal/store"
)

// Deps carries everything the local surface needs. The UI layer talks to
// these endpoints instead of holding any feed state itself.
type Deps struct {
	Store   *store.FeedStore
	Gateway *gateway.Client
	Session *session.Bootstrap
	Refresh func(ctx context.Context) error
}

type controller struct {
	Deps
}

func MapAPIs(app *fiber.App, baseURL string, deps Deps) {
	v := &controller{deps}

	api := app.Group(baseURL)
	{
		feed := api.Group("/feed")
		{
			feed.Get("/", v.listFeed)
			feed.Get("/:postId", v.getFeedPost)
			feed.Post("/:postId/react", v.reactToPost)
			feed.Get("/:postId/comments", v.listComments)
			feed.Post("/:postId/comments", v.composeComment)
		}

		posts := api.Group("/posts")
		{
			posts.Post("/", v.createPost)
			posts.Patch("/:postId", v.editPost)
			posts.Delete("/:postId", v.deletePost)
		}

		auth := api.Group("/auth")
		{
			auth.Post("/login", v.login)
			auth.Post("/signup", v.signup)
			auth.Post("/logout", v.logout)
		}

		api.Get("/users/me", v.getMyProfile)
	}
}
