package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
	if HashString("hello") != h1 {
		t.Error("HashString should match Hash of the same bytes")
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	t.Run("TextKey", func(t *testing.T) {
		a := k.TextKey(2026, TextKeyOpts{Hide: 0.3, Seed: 7})
		if !strings.HasPrefix(a, "text:") {
			t.Errorf("TextKey() = %q, want text: prefix", a)
		}
		if a != k.TextKey(2026, TextKeyOpts{Hide: 0.3, Seed: 7}) {
			t.Error("TextKey should be deterministic")
		}

		tests := []struct {
			name string
			year int
			opts TextKeyOpts
		}{
			{"year", 2027, TextKeyOpts{Hide: 0.3, Seed: 7}},
			{"hide", 2026, TextKeyOpts{Hide: 0.4, Seed: 7}},
			{"seed", 2026, TextKeyOpts{Hide: 0.3, Seed: 8}},
		}
		for _, tt := range tests {
			if k.TextKey(tt.year, tt.opts) == a {
				t.Errorf("changing %s should change the key", tt.name)
			}
		}
	})

	t.Run("ArtifactKey", func(t *testing.T) {
		base := ArtifactKeyOpts{Format: "png", Width: 3840, Height: 2160, Background: "white", Foreground: "black", BaseFontSize: 20, MarginRatio: 0.1}
		a := k.ArtifactKey("abc", base)
		if !strings.HasPrefix(a, "artifact:") {
			t.Errorf("ArtifactKey() = %q, want artifact: prefix", a)
		}

		other := base
		other.Foreground = "navy"
		if k.ArtifactKey("abc", other) == a {
			t.Error("changing foreground should change the key")
		}
		if k.ArtifactKey("abd", base) == a {
			t.Error("changing the text hash should change the key")
		}
	})
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	k := NewScopedKeyer(inner, "prod:")

	opts := TextKeyOpts{Hide: 0.5, Seed: 1}
	if got, want := k.TextKey(2030, opts), "prod:"+inner.TextKey(2030, opts); got != want {
		t.Errorf("TextKey() = %q, want %q", got, want)
	}

	aopts := ArtifactKeyOpts{Format: "png", Width: 10, Height: 10}
	if got, want := k.ArtifactKey("h", aopts), "prod:"+inner.ArtifactKey("h", aopts); got != want {
		t.Errorf("ArtifactKey() = %q, want %q", got, want)
	}

	// nil inner falls back to the default keyer
	if got := NewScopedKeyer(nil, "x:").TextKey(2030, opts); got != "x:"+inner.TextKey(2030, opts) {
		t.Errorf("NewScopedKeyer(nil) TextKey() = %q", got)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if c.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", c.Dir(), dir)
	}

	t.Run("Miss", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "missing")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if hit {
			t.Error("expected miss for missing key")
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "k1", []byte("value1"), time.Hour); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		data, hit, err := c.Get(ctx, "k1")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if !hit {
			t.Fatal("expected hit")
		}
		if string(data) != "value1" {
			t.Errorf("Get() = %q, want %q", data, "value1")
		}
	})

	t.Run("NoExpiry", func(t *testing.T) {
		if err := c.Set(ctx, "forever", []byte("x"), 0); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "forever"); !hit {
			t.Error("zero ttl entry should not expire")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
			t.Fatalf("Set error: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		if _, hit, _ := c.Get(ctx, "short"); hit {
			t.Error("expired entry should be a miss")
		}
		if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
			t.Error("expired entry should be removed from disk")
		}
	})

	t.Run("Corrupt", func(t *testing.T) {
		path := c.path("corrupt")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
			t.Fatal(err)
		}
		_, hit, err := c.Get(ctx, "corrupt")
		if err != nil {
			t.Fatalf("Get error: %v", err)
		}
		if hit {
			t.Error("corrupt entry should be a miss")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = c.Set(ctx, "gone", []byte("x"), time.Hour)
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete error: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "gone"); hit {
			t.Error("deleted key should be a miss")
		}
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Errorf("deleting a missing key: %v", err)
		}
	})
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatalf("Set(%q) error: %v", k, err)
		}
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entries should be gone after Clear")
	}
	if _, err := os.Stat(c.Dir()); err != nil {
		t.Errorf("Clear should keep the cache dir: %v", err)
	}

	// Clearing an empty cache is fine
	if n, err := c.Clear(); err != nil || n != 0 {
		t.Errorf("Clear() on empty = %d, %v; want 0, nil", n, err)
	}
}

func TestRetryable(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}

	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable should report wrapped errors")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("RetryableError should unwrap to the inner error")
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("plain errors are not retryable")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := RetryDelay
	RetryDelay = time.Millisecond
	t.Cleanup(func() { RetryDelay = old })

	ctx := context.Background()

	t.Run("SucceedsAfterRetry", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 2 {
				return Retryable(ErrUnavailable)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("RetryWithBackoff error: %v", err)
		}
		if calls != 2 {
			t.Errorf("calls = %d, want 2", calls)
		}
	})

	t.Run("GivesUp", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return Retryable(ErrUnavailable)
		})
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("RetryWithBackoff() = %v, want ErrUnavailable", err)
		}
		if calls != 3 {
			t.Errorf("calls = %d, want 3", calls)
		}
	})

	t.Run("NonRetryable", func(t *testing.T) {
		calls := 0
		boom := errors.New("boom")
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("RetryWithBackoff() = %v, want boom", err)
		}
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
	})

	t.Run("Cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cctx, func() error {
			return Retryable(ErrUnavailable)
		})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RetryWithBackoff() = %v, want context.Canceled", err)
		}
	})
}

func TestNewRedisCacheRequiresAddr(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), RedisConfig{}); err == nil {
		t.Error("NewRedisCache with empty address should fail")
	}
}
