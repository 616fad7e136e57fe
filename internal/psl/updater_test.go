package psl

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

type fakeSource struct {
	list *List
	err  error
}

func (f *fakeSource) FetchList(ctx context.Context) (*List, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeSource) URL() string { return "fake://list" }

func smallList(t *testing.T, rules ...string) *List {
	t.Helper()
	l, err := ParseList(strings.NewReader(strings.Join(rules, "\n")))
	if err != nil {
		t.Fatalf("ParseList error: %v", err)
	}
	return l
}

func TestUpdateOnce_Success(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{list: smallList(t, "com", "co.uk")}
	cfg := Config{MinRules: 1}

	if err := updateOnce(context.Background(), cfg, src, holder); err != nil {
		t.Fatalf("updateOnce error: %v", err)
	}

	if holder.Source() != "fake://list" {
		t.Fatalf("Source() = %q, want %q", holder.Source(), "fake://list")
	}
	suffix, err := holder.PublicSuffix("bbc.co.uk")
	if err != nil {
		t.Fatalf("PublicSuffix error: %v", err)
	}
	if suffix != "co.uk" {
		t.Fatalf("PublicSuffix = %q, want %q", suffix, "co.uk")
	}
}

func TestUpdateOnce_FetchError(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{err: fmt.Errorf("boom")}
	cfg := Config{MinRules: 1}

	if err := updateOnce(context.Background(), cfg, src, holder); err == nil {
		t.Fatal("updateOnce succeeded, want error")
	}
	if holder.Source() != "embedded" {
		t.Fatalf("failed update replaced the oracle, Source() = %q", holder.Source())
	}
}

func TestUpdateOnce_RejectsTruncatedList(t *testing.T) {
	holder := NewHolder()
	src := &fakeSource{list: smallList(t, "com")}
	cfg := Config{MinRules: 100}

	if err := updateOnce(context.Background(), cfg, src, holder); err == nil {
		t.Fatal("updateOnce accepted a suspiciously small list")
	}
	if holder.Source() != "embedded" {
		t.Fatalf("rejected list replaced the oracle, Source() = %q", holder.Source())
	}
}

// cancelingSource stops the updater as soon as its first fetch is served,
// so Start can be driven to completion without waiting for a tick.
type cancelingSource struct {
	list   *List
	cancel context.CancelFunc
	calls  int
}

func (s *cancelingSource) FetchList(ctx context.Context) (*List, error) {
	s.calls++
	s.cancel()
	return s.list, nil
}

func (s *cancelingSource) URL() string { return "fake://list" }

func TestStart_RefreshesImmediately(t *testing.T) {
	holder := NewHolder()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &cancelingSource{list: smallList(t, "com", "co.uk"), cancel: cancel}
	cfg := Config{
		Interval: time.Hour, // far beyond the test's lifetime
		MinRules: 1,
	}

	err := Start(ctx, cfg, src, holder)
	if err != context.Canceled {
		t.Fatalf("Start returned %v, want context.Canceled", err)
	}

	// The first refresh must happen on startup, before any tick.
	if src.calls != 1 {
		t.Fatalf("FetchList called %d times, want 1", src.calls)
	}
	if holder.Source() != "fake://list" {
		t.Fatalf("Source() = %q, want %q", holder.Source(), "fake://list")
	}
}

func TestCalcBackoff_Caps(t *testing.T) {
	initial := 30 * time.Second
	max := 30 * time.Minute

	for failures := 1; failures < 20; failures++ {
		b := calcBackoff(initial, max, failures)
		// 20% jitter band around the capped value.
		if b > max+max/5 {
			t.Fatalf("backoff %v exceeds cap at %d failures", b, failures)
		}
		if b <= 0 {
			t.Fatalf("backoff %v not positive at %d failures", b, failures)
		}
	}
}
