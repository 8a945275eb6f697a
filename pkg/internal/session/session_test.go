package session

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/socialconnect/feedsync/pkg/internal/models"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": exp.Unix(),
	})
	raw, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("unable to sign token: %v", err)
	}
	return raw
}

func TestLoadMissingProfile(t *testing.T) {
	v, err := Load(filepath.Join(t.TempDir(), "profile.json"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if v.IsSignedIn() {
		t.Fatalf("fresh bootstrap should not be signed in")
	}
}

func TestRenewAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")

	v, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	token := signedToken(t, time.Now().Add(time.Hour))
	user := models.User{ID: "u1", Name: "Alice", Bio: "hi", Avatar: "https://imgexample.com/a.png"}
	if err := v.Renew(user, token); err != nil {
		t.Fatalf("renew failed: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !again.IsSignedIn() || again.UserID() != "u1" {
		t.Fatalf("identity did not survive a reload: %+v", again.Profile())
	}
	if again.Token() != token {
		t.Fatalf("valid token should survive a reload")
	}
}

func TestExpiredTokenCleared(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")

	v, _ := Load(path)
	expired := signedToken(t, time.Now().Add(-time.Hour))
	if err := v.Renew(models.User{ID: "u1", Name: "Alice"}, expired); err != nil {
		t.Fatalf("renew failed: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(again.Token()) != 0 {
		t.Fatalf("expired token should be cleared on load")
	}
	if again.UserID() != "u1" {
		t.Fatalf("identity should survive even when the token expired")
	}
}

func TestConcurrentRenewAndReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")

	v, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = v.Renew(models.User{ID: "u1", Name: "Alice"}, "")
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = v.UserID()
				_ = v.IsSignedIn()
				_ = v.Profile()
				_ = v.Token()
			}
		}()
	}
	wg.Wait()

	if v.UserID() != "u1" {
		t.Fatalf("identity lost under concurrent access: %+v", v.Profile())
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")

	v, _ := Load(path)
	if err := v.Renew(models.User{ID: "u1", Name: "Alice"}, ""); err != nil {
		t.Fatalf("renew failed: %v", err)
	}
	if err := v.Clear(); err != nil {
		t.Fatalf("clear failed: %v", err)
	}

	again, _ := Load(path)
	if again.IsSignedIn() {
		t.Fatalf("cleared session should not be signed in")
	}
}
