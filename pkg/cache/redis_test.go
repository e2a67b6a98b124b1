package cache

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"
)

func TestRedisKey(t *testing.T) {
	if got := Key("ИС-21"); got != "schedulectl:schedule:ИС-21" {
		t.Errorf("unexpected key %q", got)
	}
}

// TestRedisIntegration needs a running server, e.g. SCHEDULECTL_TEST_REDIS=localhost:6379
func TestRedisIntegration(t *testing.T) {
	addr := os.Getenv("SCHEDULECTL_TEST_REDIS")
	if addr == "" || testing.Short() {
		t.Skip("SCHEDULECTL_TEST_REDIS not set, skipping redis integration test")
	}

	ctx := context.Background()
	c, err := NewRedis(ctx, addr, time.Minute, nil)
	if err != nil {
		t.Fatalf("NewRedis failed: %v", err)
	}
	defer c.Close()

	subject := "test-" + time.Now().Format("150405.000000")
	defer c.client.Del(ctx, Key(subject))

	if _, ok := c.Get(ctx, subject); ok {
		t.Fatalf("expected miss before Put")
	}

	want := testSchedule(subject)
	if err := c.Put(ctx, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, ok := c.Get(ctx, subject)
	if !ok {
		t.Fatalf("expected hit after Put")
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("redis round trip mismatch.\nGot: %+v\nExpected: %+v", got, want)
	}
}

func TestNewRedis_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping network test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, err := NewRedis(ctx, "127.0.0.1:1", time.Minute, nil); err == nil {
		t.Errorf("expected connection error for unreachable redis")
	}
}

func TestOpen_FallsBackToDisk(t *testing.T) {
	if _, ok := Open(context.Background(), "", time.Minute, nil).(*Disk); !ok {
		t.Errorf("expected the disk cache without a redis address")
	}

	if testing.Short() {
		t.Skip("Skipping network test in short mode")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if _, ok := Open(ctx, "127.0.0.1:1", time.Minute, nil).(*Disk); !ok {
		t.Errorf("expected the disk cache when redis is unreachable")
	}
}
