package domain

import "fmt"

// DomainResolutionError is returned when a hostname cannot be decomposed
// into labels and a public suffix (empty host, leading dot, IP literal,
// or a host that is itself a bare public suffix).
type DomainResolutionError struct {
	Host string
	Err  error
}

func (e *DomainResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("resolve domain %q: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("resolve domain %q", e.Host)
}

func (e *DomainResolutionError) Unwrap() error { return e.Err }

// URLParseError is returned when a URL string cannot be normalized into
// scheme/host/path form.
type URLParseError struct {
	URL string
	Err error
}

func (e *URLParseError) Error() string {
	return fmt.Sprintf("parse url %q: %v", e.URL, e.Err)
}

func (e *URLParseError) Unwrap() error { return e.Err }

func resolutionErr(host string, format string, args ...any) error {
	return &DomainResolutionError{Host: host, Err: fmt.Errorf(format, args...)}
}
