package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetryExhausted(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	err := Retry(context.Background(), 4, time.Millisecond, func() error {
		calls++
		return &RetryableError{Err: boom}
	})
	if calls != 4 {
		t.Errorf("calls = %d, want 4", calls)
	}
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func TestRetryZeroAttempts(t *testing.T) {
	calls := 0
	_ = Retry(context.Background(), 0, time.Millisecond, func() error {
		calls++
		return nil
	})
	if calls != 1 {
		t.Errorf("calls = %d, want at least one attempt", calls)
	}
}

func TestRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 3, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("transient")}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPolicyRetryAll(t *testing.T) {
	tests := []struct {
		name      string
		retryAll  bool
		wantCalls int
	}{
		{"retryable only", false, 1},
		{"retry all", true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen []int
			p := Policy{
				Attempts:  3,
				Delay:     time.Millisecond,
				RetryAll:  tt.retryAll,
				OnAttempt: func(n int, err error) { seen = append(seen, n) },
			}
			calls := 0
			err := p.Do(context.Background(), func(context.Context) error {
				calls++
				return errors.New("permanent")
			})
			if err == nil || calls != tt.wantCalls || len(seen) != tt.wantCalls {
				t.Errorf("err = %v, calls = %d, attempts seen = %v; want %d calls", err, calls, seen, tt.wantCalls)
			}
		})
	}
}

func TestPolicyStop(t *testing.T) {
	stop := make(chan struct{})
	boom := errors.New("boom")
	calls := 0
	p := Policy{Attempts: 5, Delay: time.Hour, RetryAll: true, Stop: stop}

	done := make(chan error, 1)
	go func() {
		done <- p.Do(context.Background(), func(context.Context) error {
			calls++
			return boom
		})
	}()
	close(stop)

	select {
	case err := <-done:
		if !errors.Is(err, boom) {
			t.Errorf("err = %v, want last attempt error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after Stop closed")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
