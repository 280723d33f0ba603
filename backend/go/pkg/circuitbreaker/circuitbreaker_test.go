package circuitbreaker

import (
	"KneeHeal/backend/go/internal/config"
	"errors"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

var errDownstream = errors.New("downstream failed")

func fail() (interface{}, error) { return nil, errDownstream }
func ok() (interface{}, error)   { return "ok", nil }

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := newBreaker(2, 1, time.Second, clock.now)

	for i := 0; i < 2; i++ {
		if _, err := cb.Execute(fail); !errors.Is(err, errDownstream) {
			t.Fatalf("call %d: err = %v", i+1, err)
		}
	}
	if cb.State() != Open {
		t.Fatalf("state = %v, want Open", cb.State())
	}
	if _, err := cb.Execute(ok); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreaker_HalfOpenRecovers(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := newBreaker(1, 2, time.Second, clock.now)

	cb.Execute(fail)
	clock.t = clock.t.Add(2 * time.Second)
	if cb.State() != HalfOpen {
		t.Fatalf("state = %v, want Half-Open", cb.State())
	}

	if res, err := cb.Execute(ok); err != nil || res != "ok" {
		t.Fatalf("res = %v, err = %v", res, err)
	}
	if cb.State() != HalfOpen {
		t.Fatalf("state after one success = %v, want Half-Open", cb.State())
	}
	cb.Execute(ok)
	if cb.State() != Closed {
		t.Fatalf("state = %v, want Closed", cb.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	cb := newBreaker(1, 1, time.Second, clock.now)

	cb.Execute(fail)
	clock.t = clock.t.Add(2 * time.Second)
	cb.Execute(fail)
	if cb.State() != Open {
		t.Fatalf("state = %v, want Open", cb.State())
	}
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	cb := newBreaker(2, 1, time.Second, time.Now)
	cb.Execute(fail)
	cb.Execute(ok)
	cb.Execute(fail)
	if cb.State() != Closed {
		t.Fatalf("state = %v, want Closed", cb.State())
	}
}

func TestFromConfig(t *testing.T) {
	cb, err := FromConfig(config.CircuitBreakerConfig{Enabled: false})
	if err != nil || cb != nil {
		t.Fatalf("disabled: cb = %v, err = %v", cb, err)
	}
	if _, err := FromConfig(config.CircuitBreakerConfig{Enabled: true, Timeout: "soon"}); err == nil {
		t.Fatal("expected duration parse error")
	}
	cb, err = FromConfig(config.CircuitBreakerConfig{Enabled: true, FailureThreshold: 3, SuccessThreshold: 1, Timeout: "5s"})
	if err != nil || cb == nil || cb.State() != Closed {
		t.Fatalf("enabled: cb = %v, err = %v", cb, err)
	}
}
