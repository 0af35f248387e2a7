package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewRedisStore(rdb, "ka-test", time.Minute)
}

func TestStoreImplementations(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) Store
	}{
		{
			name:  "memory",
			build: func(t *testing.T) Store { return NewMemoryStore() },
		},
		{
			name: "file",
			build: func(t *testing.T) Store {
				return NewFileStore(filepath.Join(t.TempDir(), "session.json"))
			},
		},
		{
			name:  "redis",
			build: func(t *testing.T) Store { return newTestRedisStore(t) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.build(t)
			ctx := context.Background()

			if _, err := s.Get(ctx, KeyToken); !errors.Is(err, ErrKeyNotFound) {
				t.Fatalf("Get on empty store: err = %v, want ErrKeyNotFound", err)
			}

			if err := s.Set(ctx, KeyToken, "tok-1"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			got, err := s.Get(ctx, KeyToken)
			if err != nil {
				t.Fatalf("Get after Set failed: %v", err)
			}
			if got != "tok-1" {
				t.Fatalf("Get = %q, want tok-1", got)
			}

			if err := s.Set(ctx, KeyToken, "tok-2"); err != nil {
				t.Fatalf("overwrite failed: %v", err)
			}
			if got, _ := s.Get(ctx, KeyToken); got != "tok-2" {
				t.Fatalf("Get after overwrite = %q, want tok-2", got)
			}

			if err := s.Delete(ctx, KeyToken); err != nil {
				t.Fatalf("Delete failed: %v", err)
			}
			if _, err := s.Get(ctx, KeyToken); !errors.Is(err, ErrKeyNotFound) {
				t.Fatalf("Get after Delete: err = %v, want ErrKeyNotFound", err)
			}

			// Deleting twice must stay quiet.
			if err := s.Delete(ctx, KeyToken); err != nil {
				t.Fatalf("second Delete failed: %v", err)
			}
		})
	}
}

func TestFileStoreSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	ctx := context.Background()

	first := NewFileStore(path)
	if err := first.Set(ctx, KeyToken, "persisted"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	second := NewFileStore(path)
	got, err := second.Get(ctx, KeyToken)
	if err != nil {
		t.Fatalf("Get from fresh store failed: %v", err)
	}
	if got != "persisted" {
		t.Fatalf("Get = %q, want persisted", got)
	}
}

func TestFileStoreCorruptFileDegrades(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	if _, err := s.Get(context.Background(), KeyToken); !errors.Is(err, ErrKeyNotFound) {
		t.Fatalf("Get on corrupt file: err = %v, want ErrKeyNotFound", err)
	}
	// Writing over the corrupt file must succeed.
	if err := s.Set(context.Background(), KeyToken, "fresh"); err != nil {
		t.Fatalf("Set over corrupt file failed: %v", err)
	}
}

func TestRedisStoreLoggingOutFlagTTL(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(rdb, "ka", 30*time.Second)
	ctx := context.Background()

	if err := s.Set(ctx, KeyLoggingOut, LoggingOutValue); err != nil {
		t.Fatalf("Set flag failed: %v", err)
	}
	if ttl := mr.TTL("ka:" + KeyLoggingOut); ttl != 30*time.Second {
		t.Fatalf("flag TTL = %v, want 30s", ttl)
	}

	if err := s.Set(ctx, KeyToken, "tok"); err != nil {
		t.Fatalf("Set token failed: %v", err)
	}
	if ttl := mr.TTL("ka:" + KeyToken); ttl != 0 {
		t.Fatalf("token TTL = %v, want none", ttl)
	}
}

func TestRedisStoreUnavailable(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis run failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(rdb, "ka", 0)
	mr.Close()

	if _, err := s.Get(context.Background(), KeyToken); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Get against closed redis: err = %v, want ErrStoreUnavailable", err)
	}
	if err := s.Set(context.Background(), KeyToken, "x"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Set against closed redis: err = %v, want ErrStoreUnavailable", err)
	}
}
