package progress

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
)

func TestRedisStoreContract(t *testing.T) {
	addr := os.Getenv("REDIS_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_ADDRESS not set, skipping")
	}
	runContract(t, func(t *testing.T) Store {
		ctx := context.Background()
		st, err := NewRedisStore(ctx, RedisConfig{Address: addr, Prefix: "rq-test:" + uuid.NewString() + ":"})
		if err != nil {
			t.Fatalf("NewRedisStore() error = %v", err)
		}
		t.Cleanup(func() {
			_ = st.ResetProgress(ctx)
			_ = st.client.Del(ctx, st.settingsKey()).Err()
			_ = st.Close()
		})
		return st
	})
}

func TestPostgresStoreContract(t *testing.T) {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		t.Skip("DATABASE_DSN not set, skipping")
	}
	runContract(t, func(t *testing.T) Store {
		ctx := context.Background()
		st, err := NewPostgresStore(ctx, PostgresConfig{DSN: dsn})
		if err != nil {
			t.Fatalf("NewPostgresStore() error = %v", err)
		}
		// tables are shared, start each case clean
		if err := st.ResetProgress(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := st.pool.Exec(ctx, `DELETE FROM settings`); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = st.Close() })
		return st
	})
}

func TestOpenUnknownEngine(t *testing.T) {
	_, err := Open(context.Background(), Config{Engine: "floppy"})
	if !errors.Is(err, ErrUnknownEngine) {
		t.Fatalf("Open() error = %v, want ErrUnknownEngine", err)
	}
}

func TestOpenMemory(t *testing.T) {
	st, err := Open(context.Background(), Config{Engine: " Memory "})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer st.Close()
	if _, ok := st.(*memory); !ok {
		t.Fatalf("Open(memory) returned %T", st)
	}
}
