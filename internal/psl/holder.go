package psl

import (
	"sync/atomic"

	"github.com/justin-/privacybadgerfirefox/internal/domain"
)

type snapshot struct {
	oracle domain.SuffixOracle
	source string
}

// Holder hands out the currently active suffix oracle and lets the updater
// swap in a fresh one atomically. A new Holder starts on the embedded list,
// so lookups work before the first live fetch completes.
//
// Holder itself implements domain.SuffixOracle by delegation, so it can be
// injected directly into the hierarchy and classifier.
type Holder struct {
	value atomic.Pointer[snapshot]
}

func NewHolder() *Holder {
	h := &Holder{}
	h.value.Store(&snapshot{oracle: Embedded{}, source: "embedded"})
	return h
}

func (h *Holder) Get() domain.SuffixOracle {
	return h.value.Load().oracle
}

// Set installs a new oracle. source is a human-readable origin ("embedded",
// a URL, a file path) surfaced in logs and the readiness endpoint.
func (h *Holder) Set(oracle domain.SuffixOracle, source string) {
	h.value.Store(&snapshot{oracle: oracle, source: source})
}

// Source reports where the active oracle came from.
func (h *Holder) Source() string {
	return h.value.Load().source
}

// Live reports whether a fetched list has replaced the embedded snapshot.
func (h *Holder) Live() bool {
	return h.Source() != "embedded"
}

func (h *Holder) PublicSuffix(host string) (string, error) {
	return h.Get().PublicSuffix(host)
}

func (h *Holder) BaseDomain(host string) (string, error) {
	return h.Get().BaseDomain(host)
}

var _ domain.SuffixOracle = (*Holder)(nil)
