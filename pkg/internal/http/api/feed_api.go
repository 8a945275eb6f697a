package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/socialconnect/feedsync/pkg/internal/http/exts"
	"github.com/socialconnect/feedsync/pkg/internal/models"
)

func (v *controller) listFeed(c *fiber.Ctx) error {
	take := max(0, c.QueryInt("take", 20))
	offset := max(0, c.QueryInt("offset", 0))

	items := v.Store.List()
	count := len(items)

	if offset >= count {
		items = nil
	} else {
		items = items[offset:]
		if take < len(items) {
			items = items[:take]
		}
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func (v *controller) getFeedPost(c *fiber.Ctx) error {
	item, ok := v.Store.Get(c.Params("postId"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no such post in the current feed")
	}

	return c.JSON(item)
}

func (v *controller) reactToPost(c *fiber.Ctx) error {
	if !v.Session.IsSignedIn() {
		return fiber.NewError(fiber.StatusUnauthorized, "sign in before reacting to posts")
	}

	var data struct {
		Axis string `json:"axis" validate:"required,oneof=like unlike"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	// The optimistic apply is done when this returns; the confirmation runs
	// in the background and is not awaited here.
	receipt := v.Store.ReactToPost(
		context.WithoutCancel(c.UserContext()),
		c.Params("postId"),
		v.Session.UserID(),
		models.ReactionAxis(data.Axis),
	)

	return c.JSON(fiber.Map{
		"applied": receipt.Applied,
		"action":  receipt.Action,
	})
}

func (v *controller) listComments(c *fiber.Ctx) error {
	item, ok := v.Store.Get(c.Params("postId"))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "no such post in the current feed")
	}

	return c.JSON(fiber.Map{
		"count": len(item.Comments),
		"data":  item.Comments,
	})
}

func (v *controller) composeComment(c *fiber.Ctx) error {
	if !v.Session.IsSignedIn() {
		return fiber.NewError(fiber.StatusUnauthorized, "sign in before commenting")
	}

	var data struct {
		Text string `json:"text" validate:"required,max=2048"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	comment, receipt := v.Store.ComposeComment(
		context.WithoutCancel(c.UserContext()),
		c.Params("postId"),
		v.Session.UserID(),
		data.Text,
	)
	if !receipt.Applied {
		return fiber.NewError(fiber.StatusNotFound, "no such post in the current feed")
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}
