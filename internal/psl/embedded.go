package psl

import (
	"github.com/justin-/privacybadgerfirefox/internal/domain"
	"golang.org/x/net/publicsuffix"
)

// Embedded serves lookups from the Public Suffix List snapshot compiled into
// golang.org/x/net/publicsuffix. It needs no I/O and is the oracle a fresh
// Holder starts with, until a live list has been fetched.
type Embedded struct{}

func (Embedded) PublicSuffix(host string) (string, error) {
	host, err := checkHost(host)
	if err != nil {
		return "", err
	}
	suffix, _ := publicsuffix.PublicSuffix(host)
	return suffix, nil
}

func (Embedded) BaseDomain(host string) (string, error) {
	host, err := checkHost(host)
	if err != nil {
		return "", err
	}
	base, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", &domain.DomainResolutionError{Host: host, Err: err}
	}
	return base, nil
}

var _ domain.SuffixOracle = Embedded{}
