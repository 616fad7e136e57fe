package domain

import (
	"errors"
	"net"
	"strings"
)

// Hierarchy computes registrable-domain facts about hostnames: the base
// domain (eTLD+1), the immediate parent domain, and the ordered chain of
// ancestors down to the base domain. All answers are derived fresh from the
// injected oracle; Hierarchy itself keeps no state.
type Hierarchy struct {
	oracle SuffixOracle
}

func NewHierarchy(oracle SuffixOracle) *Hierarchy {
	return &Hierarchy{oracle: oracle}
}

// BaseDomain returns the registrable domain of host (public suffix plus one
// label). Fails with *DomainResolutionError for hosts that have no
// registrable domain: empty hosts, hosts with empty labels, IP literals and
// bare public suffixes.
func (h *Hierarchy) BaseDomain(host string) (string, error) {
	if err := validateHost(host); err != nil {
		return "", err
	}
	bd, err := h.oracle.BaseDomain(host)
	if err != nil {
		return "", wrapResolution(host, err)
	}
	return bd, nil
}

// ParentDomain returns the immediate parent of host within its registrable
// hierarchy: one subdomain level stripped, but never below the base domain.
// A host at or directly above the base domain maps to the base domain, so
// the operation is idempotent at the floor ("a domain can set cookies for
// its parent" semantics).
func (h *Hierarchy) ParentDomain(host string) (string, error) {
	if err := validateHost(host); err != nil {
		return "", err
	}
	suffix, err := h.oracle.PublicSuffix(host)
	if err != nil {
		return "", wrapResolution(host, err)
	}

	labels := strings.Split(host, ".")
	if len(labels)-labelCount(suffix) < 3 {
		// host is the base domain itself, or only one level above it.
		return h.BaseDomain(host)
	}
	return strings.Join(labels[1:], "."), nil
}

// EachParentDomain walks host and its ancestors from most specific down to
// the base domain inclusive, invoking pred on each candidate and stopping at
// the first true result. The public suffix itself is never visited. With
// ignoreSelf set the walk starts at the immediate parent instead of host.
//
// pred runs synchronously on the caller's stack, strictly in
// descending-specificity order; callers use that ordering to short-circuit
// blocklist lookups.
func (h *Hierarchy) EachParentDomain(host string, pred func(candidate string) bool, ignoreSelf bool) (bool, error) {
	if err := validateHost(host); err != nil {
		return false, err
	}
	suffix, err := h.oracle.PublicSuffix(host)
	if err != nil {
		return false, wrapResolution(host, err)
	}

	labels := strings.Split(host, ".")
	sl := labelCount(suffix)
	if ignoreSelf {
		labels = labels[1:]
	}

	for len(labels)-sl > 0 {
		if pred(strings.Join(labels, ".")) {
			return true, nil
		}
		labels = labels[1:]
	}
	return false, nil
}

// ParentChain collects the ancestors EachParentDomain would visit, starting
// with host itself and ending at the base domain.
func (h *Hierarchy) ParentChain(host string) ([]string, error) {
	var chain []string
	_, err := h.EachParentDomain(host, func(candidate string) bool {
		chain = append(chain, candidate)
		return false
	}, false)
	if err != nil {
		return nil, err
	}
	return chain, nil
}

func labelCount(host string) int {
	if host == "" {
		return 0
	}
	return strings.Count(host, ".") + 1
}

func validateHost(host string) error {
	if host == "" {
		return resolutionErr(host, "empty host")
	}
	if host[0] == '.' || host[len(host)-1] == '.' {
		return resolutionErr(host, "host has leading or trailing dot")
	}
	if strings.Contains(host, "..") {
		return resolutionErr(host, "host has empty label")
	}
	if ip := net.ParseIP(host); ip != nil {
		return resolutionErr(host, "ip literal has no registrable domain")
	}
	return nil
}

func wrapResolution(host string, err error) error {
	var dre *DomainResolutionError
	if errors.As(err, &dre) {
		return err
	}
	return &DomainResolutionError{Host: host, Err: err}
}
