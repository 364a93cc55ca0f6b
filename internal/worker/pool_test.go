package worker

import (
	"errors"
	"testing"
	"time"
)

func TestPoolSubmitAndDrain(t *testing.T) {
	p := New(2)
	defer p.Close()

	p.Submit(func() (any, error) { return 42, nil })

	var results []Result
	deadline := time.After(time.Second)
	for len(results) < 1 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for job result")
		default:
			results = append(results, p.Drain()...)
		}
	}

	if results[0].Value != 42 || results[0].Err != nil {
		t.Errorf("expected Result{42, nil}, got %+v", results[0])
	}
}

func TestPoolDrainNonBlockingWhenEmpty(t *testing.T) {
	p := New(1)
	defer p.Close()

	results := p.Drain()
	if results != nil {
		t.Errorf("expected nil/empty drain with no submitted jobs, got %v", results)
	}
}

func TestPoolCarriesJobError(t *testing.T) {
	p := New(1)
	defer p.Close()

	wantErr := errors.New("decode failed")
	p.Submit(func() (any, error) { return nil, wantErr })

	var got Result
	deadline := time.After(time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for job result")
		default:
		}
		if rs := p.Drain(); len(rs) > 0 {
			got = rs[0]
			break
		}
	}

	if got.Err != wantErr {
		t.Errorf("expected job error to propagate, got %v", got.Err)
	}
}

func TestNewDefaultsSizeWhenNonPositive(t *testing.T) {
	p := New(0)
	defer p.Close()
	// Submitting more jobs than a size-0 misconfiguration would allow
	// verifies the pool actually started worker goroutines.
	p.Submit(func() (any, error) { return "ok", nil })

	deadline := time.After(time.Second)
	for {
		select {
		case <-deadline:
			t.Fatal("timed out: New(0) did not start any workers")
		default:
		}
		if rs := p.Drain(); len(rs) > 0 {
			return
		}
	}
}
