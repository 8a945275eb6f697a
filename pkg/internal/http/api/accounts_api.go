package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/socialconnect/feedsync/pkg/internal/gateway"
	"github.com/socialconnect/feedsync/pkg/internal/http/exts"
)

func (v *controller) login(c *fiber.Ctx) error {
	var data struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, token, err := v.Gateway.Login(c.UserContext(), data.Email, data.Password)
	if errors.Is(err, gateway.ErrBadCredentials) {
		return fiber.NewError(fiber.StatusUnauthorized, err.Error())
	} else if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	if err := v.Session.Renew(user, token); err != nil {
		log.Warn().Err(err).Msg("Unable to cache the session profile...")
	}
	v.Gateway.UseToken(token)

	return c.JSON(user)
}

func (v *controller) signup(c *fiber.Ctx) error {
	var data struct {
		Name     string `json:"name" validate:"required,min=2,max=64"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	user, token, err := v.Gateway.Signup(c.UserContext(), data.Name, data.Email, data.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	if err := v.Session.Renew(user, token); err != nil {
		log.Warn().Err(err).Msg("Unable to cache the session profile...")
	}
	v.Gateway.UseToken(token)

	return c.Status(fiber.StatusCreated).JSON(user)
}

func (v *controller) logout(c *fiber.Ctx) error {
	if err := v.Session.Clear(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	v.Gateway.UseToken("")

	return c.SendStatus(fiber.StatusNoContent)
}

func (v *controller) getMyProfile(c *fiber.Ctx) error {
	if !v.Session.IsSignedIn() {
		return fiber.NewError(fiber.StatusUnauthorized, "no active session")
	}

	return c.JSON(v.Session.Profile())
}
