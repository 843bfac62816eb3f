package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bibliofind/internal/logger"
)

// flakyPinger fails the first n pings.
type flakyPinger struct {
	failures int
	calls    int
}

func (f *flakyPinger) Ping(ctx context.Context) *redis.StatusCmd {
	f.calls++
	cmd := redis.NewStatusCmd(ctx)
	if f.calls <= f.failures {
		cmd.SetErr(errors.New("connection refused"))
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

func testOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "redis.test:6379",
		ConnectTimeout: time.Second,
		RetryInterval:  time.Millisecond,
		MaxWait:        5 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestWaitForPingRetriesUntilSuccess(t *testing.T) {
	p := &flakyPinger{failures: 3}

	if err := waitForPing(context.Background(), p, testOptions(), logger.NewNop()); err != nil {
		t.Fatalf("waitForPing() error = %v", err)
	}
	if p.calls != 4 {
		t.Errorf("ping calls = %d, want 4", p.calls)
	}
}

func TestWaitForPingGivesUp(t *testing.T) {
	opts := testOptions()
	opts.ConnectTimeout = 20 * time.Millisecond
	p := &flakyPinger{failures: 1 << 30}

	err := waitForPing(context.Background(), p, opts, logger.NewNop())
	if err == nil {
		t.Fatal("waitForPing() should fail when redis never answers")
	}
	if p.calls < 2 {
		t.Errorf("ping calls = %d, want several attempts", p.calls)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ConnectOptions)
		wantErr bool
	}{
		{"valid", func(*ConnectOptions) {}, false},
		{"missing addr", func(o *ConnectOptions) { o.Addr = "" }, true},
		{"zero connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }, true},
		{"zero retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }, true},
		{"zero max wait", func(o *ConnectOptions) { o.MaxWait = 0 }, true},
		{"zero ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }, true},
		{"negative warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.mutate(&opts)
			if err := opts.validate(); (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
