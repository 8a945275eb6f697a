package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

func TestFetchPostsMergesAuthorsAndSorts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/posts":
			w.Write([]byte(`[
				{"id":"old","userId":"u1","text":"old","timestamp":"2025-06-01T00:00:00Z","comments":[{"id":"c1","userId":"u2","text":"hi","timestamp":"2025-06-01T01:00:00Z"}]},
				{"id":"new","userId":"u2","text":"new","timestamp":"2025-06-02T00:00:00Z"}
			]`))
		case "/users":
			w.Write([]byte(`[{"id":"u1","name":"Alice"},{"id":"u2","name":"Bob"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	posts, err := client.FetchPosts(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(posts) != 2 || posts[0].ID != "new" || posts[1].ID != "old" {
		t.Fatalf("expected [new old], got %v", posts)
	}
	if posts[0].Author == nil || posts[0].Author.Name != "Bob" {
		t.Fatalf("author record not merged onto post")
	}
	if posts[1].Comments[0].Author == nil || posts[1].Comments[0].Author.Name != "Bob" {
		t.Fatalf("author record not merged onto comment")
	}
}

func TestSendReactionContract(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = jsoniter.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.SendReaction(context.Background(), "p1", "u1", models.ReactionUnlikeAdd); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if gotMethod != http.MethodPatch || gotPath != "/post-reaction/p1" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
	if gotBody["userId"] != "u1" || gotBody["action"] != "unlike_add" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestSendReactionRejectsFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	if err := client.SendReaction(context.Background(), "p1", "u1", models.ReactionLikeAdd); err == nil {
		t.Fatalf("expected an error on a non-2xx status")
	}
}

func TestCreateCommentContract(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = jsoniter.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	comment := models.Comment{
		ID:        "c1",
		UserID:    "u1",
		Text:      "hello",
		Timestamp: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := client.CreateComment(context.Background(), "p1", comment); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if gotPath != "/comment/p1" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotBody["id"] != "c1" || gotBody["userId"] != "u1" || gotBody["text"] != "hello" {
		t.Fatalf("unexpected body: %v", gotBody)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, _, err := client.Login(context.Background(), "a@b.c", "hunter22")
	if !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestAuthorizationHeaderAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.UseToken("token-123")
	if _, err := client.FetchPosts(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if gotAuth != "Bearer token-123" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
}

func TestTokenSwapDuringRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth != "Bearer old" && auth != "Bearer new" {
			t.Errorf("unexpected auth header: %q", auth)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.UseToken("old")

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			client.UseToken("new")
			client.UseToken("old")
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = client.SendReaction(context.Background(), "p1", "u1", models.ReactionLikeAdd)
		}
	}()
	wg.Wait()
}
