package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

var ErrBadCredentials = errors.New("incorrect email or password")

type authResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

func (v *Client) Login(ctx context.Context, email, password string) (models.User, string, error) {
	status, raw, err := v.do(ctx, http.MethodPost, "/login", fiber.Map{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to login: %v", err)
	}
	if status == fiber.StatusUnauthorized {
		return models.User{}, "", ErrBadCredentials
	}
	if status != fiber.StatusOK {
		return models.User{}, "", fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	var result authResponse
	if err := jsoniter.Unmarshal(raw, &result); err != nil {
		return models.User{}, "", fmt.Errorf("failed to parse login response: %v", err)
	}

	return result.User, result.Token, nil
}

func (v *Client) Signup(ctx context.Context, name, email, password string) (models.User, string, error) {
	status, raw, err := v.do(ctx, http.MethodPost, "/signup", fiber.Map{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return models.User{}, "", fmt.Errorf("failed to signup: %v", err)
	}
	if status != fiber.StatusOK && status != fiber.StatusCreated {
		return models.User{}, "", fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	var result authResponse
	if err := jsoniter.Unmarshal(raw, &result); err != nil {
		return models.User{}, "", fmt.Errorf("failed to parse signup response: %v", err)
	}

	v.InvalidateUsers(ctx)

	return result.User, result.Token, nil
}
