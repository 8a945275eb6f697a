package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"

	localCache "github.com/socialconnect/feedsync/pkg/internal/cache"
	"github.com/socialconnect/feedsync/pkg/internal/models"
)

const userDirectoryCacheKey = "user-directory"

// FetchUsers pulls the user directory used to resolve post and comment
// authors. The directory changes rarely, so it is cached for a few minutes.
func (v *Client) FetchUsers(ctx context.Context) ([]models.User, error) {
	if localCache.S != nil {
		cacheManager := cache.New[any](localCache.S)
		marshal := marshaler.New(cacheManager)

		if hit, err := marshal.Get(ctx, userDirectoryCacheKey, new([]models.User)); err == nil {
			return *hit.(*[]models.User), nil
		}
	}

	status, raw, err := v.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %v", err)
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	var users []models.User
	if err := jsoniter.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("failed to parse users JSON: %v", err)
	}

	if localCache.S != nil {
		cacheManager := cache.New[any](localCache.S)
		marshal := marshaler.New(cacheManager)

		_ = marshal.Set(
			ctx,
			userDirectoryCacheKey,
			users,
			store.WithExpiration(5*time.Minute),
			store.WithTags([]string{userDirectoryCacheKey}),
		)
	}

	return users, nil
}

// InvalidateUsers drops the cached directory, used after signup so the new
// account shows up as an author right away.
func (v *Client) InvalidateUsers(ctx context.Context) {
	if localCache.S == nil {
		return
	}
	cacheManager := cache.New[any](localCache.S)
	_ = cacheManager.Delete(ctx, userDirectoryCacheKey)
}
