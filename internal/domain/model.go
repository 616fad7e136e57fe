package domain

// SuffixOracle answers public-suffix questions for hostnames. Implementations
// must follow the Public Suffix List algorithm (longest matching rule, with
// wildcard and exception rules) and must be safe for concurrent use.
type SuffixOracle interface {
	// PublicSuffix returns the longest registry-controlled suffix of host,
	// e.g. "co.uk" for "www.bbc.co.uk".
	PublicSuffix(host string) (string, error)

	// BaseDomain returns the public suffix plus exactly one more label
	// (the eTLD+1), e.g. "bbc.co.uk" for "www.bbc.co.uk".
	BaseDomain(host string) (string, error)
}

// WindowResolver maps a request URL to the URL of the document that issued
// it, via whatever ambient channel/load-context association the host
// environment keeps. ok is false when no document context can be found.
type WindowResolver interface {
	Resolve(requestURL string) (documentURL string, ok bool)
}

// NormalizedURL — result of Normalize.
type NormalizedURL struct {
	Scheme string // "http" or "https"
	Host   string // lowercase ASCII host, no port
	Path   string // cleaned path, always starts with "/"
}
