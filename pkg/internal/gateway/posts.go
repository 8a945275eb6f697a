package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

// FetchPosts pulls the whole feed and stitches the denormalized author record
// onto each post, newest first. The backend keeps posts and users in separate
// collections, so two requests are merged here.
func (v *Client) FetchPosts(ctx context.Context) ([]models.Post, error) {
	status, raw, err := v.do(ctx, http.MethodGet, "/posts", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts: %v", err)
	}
	if status != fiber.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	var posts []models.Post
	if err := jsoniter.Unmarshal(raw, &posts); err != nil {
		return nil, fmt.Errorf("failed to parse posts JSON: %v", err)
	}

	users, err := v.FetchUsers(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Unable to fetch user directory, posts will miss author records...")
	} else {
		userMap := lo.SliceToMap(users, func(item models.User) (string, models.User) {
			return item.ID, item
		})
		for idx := range posts {
			if user, ok := userMap[posts[idx].UserID]; ok {
				posts[idx].Author = lo.ToPtr(user)
			}
			for cdx := range posts[idx].Comments {
				if user, ok := userMap[posts[idx].Comments[cdx].UserID]; ok {
					posts[idx].Comments[cdx].Author = lo.ToPtr(user)
				}
			}
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Timestamp.After(posts[j].Timestamp)
	})

	return posts, nil
}

func (v *Client) FetchPost(ctx context.Context, postId string) (models.Post, error) {
	var post models.Post

	status, raw, err := v.do(ctx, http.MethodGet, "/posts/"+postId, nil)
	if err != nil {
		return post, fmt.Errorf("failed to fetch post: %v", err)
	}
	if status != fiber.StatusOK {
		return post, fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	if err := jsoniter.Unmarshal(raw, &post); err != nil {
		return post, fmt.Errorf("failed to parse post JSON: %v", err)
	}

	return post, nil
}

func (v *Client) CreatePost(ctx context.Context, userId, text string, images []string) error {
	status, raw, err := v.do(ctx, http.MethodPost, "/create-post", fiber.Map{
		"userId": userId,
		"text":   text,
		"images": images,
	})
	if err != nil {
		return fmt.Errorf("failed to create post: %v", err)
	}
	if status != fiber.StatusCreated {
		return fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	return nil
}

func (v *Client) UpdatePost(ctx context.Context, postId, text string, images []string) error {
	status, raw, err := v.do(ctx, http.MethodPatch, "/update-post/"+postId, fiber.Map{
		"text":   text,
		"images": images,
	})
	if err != nil {
		return fmt.Errorf("failed to update post: %v", err)
	}
	if status != fiber.StatusOK {
		return fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	return nil
}

func (v *Client) DeletePost(ctx context.Context, postId string) error {
	status, raw, err := v.do(ctx, http.MethodDelete, "/post/"+postId, nil)
	if err != nil {
		return fmt.Errorf("failed to delete post: %v", err)
	}
	if status >= 300 {
		return fmt.Errorf("unexpected status code: %d, response: %s", status, raw)
	}

	return nil
}
