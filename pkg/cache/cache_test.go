package cache

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

var errOther = errors.New("other")

func init() { retryDelay = time.Millisecond }

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	if err := c.Set(ctx, "render:k", []byte(`\node (a) {};`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, hit, err := c.Get(ctx, "render:k"); hit || data != nil || err != nil {
		t.Errorf("Get = %q, %v, %v; want a silent miss", data, hit, err)
	}
	if err := c.Delete(ctx, "render:k"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry should miss")
	}
}

func TestFileCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("v"), 0)
	if err := os.WriteFile(c.path("k"), []byte("\\begin{tikzpicture}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "k"); hit || err != nil {
		t.Errorf("corrupt entry: hit=%v err=%v", hit, err)
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("corrupt entry should be removed")
	}
}

func TestFileCache_BinaryArtifact(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0xff}
	if err := c.Set(ctx, "preview:png", png, time.Hour); err != nil {
		t.Fatal(err)
	}
	got, hit, err := c.Get(ctx, "preview:png")
	if err != nil || !hit || string(got) != string(png) {
		t.Errorf("Get = %v, %v, %v", got, hit, err)
	}

	// On disk the artifact follows the header line byte for byte.
	raw, err := os.ReadFile(c.path("preview:png"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), entryMagic) || !strings.HasSuffix(string(raw), string(png)) {
		t.Errorf("entry file = %q", raw)
	}
	if len(raw) > len(png)+64 {
		t.Errorf("entry file is %d bytes for a %d byte artifact", len(raw), len(png))
	}
}

func TestFileCache_Stats(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	if st, err := c.Stats(); err != nil || st.Entries != 0 {
		t.Fatalf("empty Stats = %+v, %v", st, err)
	}
	_ = c.Set(ctx, "a", []byte("12345"), 0)
	_ = c.Set(ctx, "b", []byte("6789"), 0)
	st, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if st.Entries != 2 || st.Bytes < 9 {
		t.Errorf("Stats = %+v", st)
	}
}

func TestFileCache_Overwrite(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	_ = c.Set(ctx, "k", []byte("old"), 0)
	_ = c.Set(ctx, "k", []byte("new"), 0)
	if data, _, _ := c.Get(ctx, "k"); string(data) != "new" {
		t.Errorf("Get = %q, want new", data)
	}
	entries, _ := os.ReadDir(filepath.Dir(c.path("k")))
	if len(entries) != 1 {
		t.Errorf("shard holds %d files, want 1 (temp files must not linger)", len(entries))
	}
}

func TestFileCache_Clear(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	n, err := c.Clear()
	if err != nil || n != 3 {
		t.Errorf("Clear = %d, %v", n, err)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("cleared entry should miss")
	}
	if c.Dir() != dir {
		t.Errorf("Dir = %s", c.Dir())
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	rk1 := k.RenderKey("hash123", RenderKeyOpts{Format: "tikz"})
	rk2 := k.RenderKey("hash123", RenderKeyOpts{Format: "tex"})
	rk3 := k.RenderKey("hash123", RenderKeyOpts{Format: "tikz", Precision: 2})
	if rk1 == rk2 || rk1 == rk3 {
		t.Error("Different RenderKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(rk1, "render:") {
		t.Errorf("RenderKey unexpected: %s", rk1)
	}
	if rk1 != k.RenderKey("hash123", RenderKeyOpts{Format: "tikz"}) {
		t.Error("RenderKey should be deterministic")
	}

	dirA := k.RenderKey("hash123", RenderKeyOpts{Format: "tikz", Dir: "/scenes/a"})
	dirB := k.RenderKey("hash123", RenderKeyOpts{Format: "tikz", Dir: "/scenes/b"})
	if dirA == dirB || dirA == rk1 {
		t.Error("scene directory should be part of the render key")
	}
	// Fields are delimited, so moving bytes between them changes the key.
	if k.RenderKey("h", RenderKeyOpts{Object: "ab", Class: "c"}) == k.RenderKey("h", RenderKeyOpts{Object: "a", Class: "bc"}) {
		t.Error("adjacent fields must not run together")
	}
	if len(rk1) != len("render:")+64 {
		t.Errorf("RenderKey length = %d", len(rk1))
	}

	pk1 := k.PreviewKey("hash123", PreviewKeyOpts{Format: "svg"})
	pk2 := k.PreviewKey("hash123", PreviewKeyOpts{Format: "png", Scale: 2})
	if pk1 == pk2 {
		t.Error("Different PreviewKeyOpts should produce different keys")
	}
	if !strings.HasPrefix(pk1, "preview:") {
		t.Errorf("PreviewKey unexpected: %s", pk1)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "serve:")

	opts := RenderKeyOpts{Format: "dot"}
	if got, want := scoped.RenderKey("h", opts), "serve:"+inner.RenderKey("h", opts); got != want {
		t.Errorf("ScopedKeyer RenderKey = %s, want %s", got, want)
	}
	if got := scoped.PreviewKey("h", PreviewKeyOpts{}); !strings.HasPrefix(got, "serve:preview:") {
		t.Errorf("ScopedKeyer PreviewKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.RenderKey("h", RenderKeyOpts{})
	if !strings.HasPrefix(key, "prefix:render:") {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestString(t *testing.T) {
	fc, _ := NewFileCache(t.TempDir())
	if got := String(fc); !strings.HasPrefix(got, "file:") {
		t.Errorf("String(file) = %s", got)
	}
	if got := String(NewNullCache()); got != "none" {
		t.Errorf("String(null) = %s", got)
	}
	rc := NewRedisCacheFromClient(redis.NewClient(&redis.Options{Addr: "localhost:6390"}))
	defer rc.Close()
	if got := String(rc); got != "redis:localhost:6390" {
		t.Errorf("String(redis) = %s", got)
	}
}

func TestNewRedisCache_BadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://nope"); err == nil {
		t.Error("expected error for non-redis url")
	}
}

func TestClassify(t *testing.T) {
	if classify(nil) != nil {
		t.Error("nil should stay nil")
	}
	if err := classify(redis.Nil); !errors.Is(err, redis.Nil) || IsRetryable(err) {
		t.Errorf("redis.Nil should pass through: %v", err)
	}
	netErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	err := classify(netErr)
	if !IsRetryable(err) || !errors.Is(err, ErrBackend) {
		t.Errorf("network error should be retryable backend error: %v", err)
	}
	if IsRetryable(classify(errOther)) {
		t.Error("other errors are not retryable")
	}
}

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(ErrBackend)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != ErrBackend.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errOther) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := RetryWithBackoff(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		return errOther
	})
	if err != errOther {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrBackend)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrBackend)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
