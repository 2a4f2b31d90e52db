package retry

import (
	"context"
	"testing"
	"time"

	"github.com/alexsohr/autodoc/internal/config"
)

func TestDelayLinear(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffLinear, Initial: 2 * time.Second, Max: 30 * time.Second, MaxAttempts: 3}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 6 * time.Second},
		{100, 30 * time.Second},
	}
	for _, c := range cases {
		if got := p.Delay(c.attempt); got != c.want {
			t.Errorf("Delay(%d) = %v, want %v", c.attempt, got, c.want)
		}
	}
}

func TestDelayFixed(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffFixed, Initial: 5 * time.Second, Max: 30 * time.Second, MaxAttempts: 3}
	for _, attempt := range []int{1, 2, 10} {
		if got := p.Delay(attempt); got != 5*time.Second {
			t.Errorf("Delay(%d) = %v, want 5s", attempt, got)
		}
	}
}

func TestDelayExponential(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffExponential, Initial: time.Second, Max: 10 * time.Second, MaxAttempts: 5}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
	}
	for _, c := range cases {
		if got := p.Delay(c.attempt); got != c.want {
			t.Errorf("Delay(%d) = %v, want %v", c.attempt, got, c.want)
		}
	}
}

func TestWaitCanceled(t *testing.T) {
	p := Policy{Mode: config.RetryBackoffFixed, Initial: time.Minute, Max: time.Minute, MaxAttempts: 2}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := p.Wait(ctx, 1)
	if err == nil {
		t.Fatal("expected context error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Wait blocked for %v after cancel", elapsed)
	}
}

func TestFromConfigDefaults(t *testing.T) {
	p := FromConfig(config.RetryConfig{})
	if p.MaxAttempts != 3 || p.Initial != 2*time.Second || p.Mode != config.RetryBackoffLinear {
		t.Errorf("unexpected defaults: %+v", p)
	}
}

func TestNewPolicyUnknownModeFallsBack(t *testing.T) {
	p := NewPolicy("quadratic", 0, 0, 0)
	if p.Mode != config.RetryBackoffLinear {
		t.Errorf("Mode = %v, want linear fallback", p.Mode)
	}
}
