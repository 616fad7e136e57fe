package psl

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"

	"github.com/justin-/privacybadgerfirefox/internal/domain"
)

// List is a parsed Public Suffix List. Lookups implement the PSL algorithm:
// the longest matching rule wins, exception rules beat wildcard rules, and
// the implicit "*" rule applies when nothing matches. A List is immutable
// after parsing and safe for concurrent readers.
type List struct {
	rules      map[string]struct{} // exact rules
	wildcards  map[string]struct{} // "*.foo" stored as "foo"
	exceptions map[string]struct{} // "!foo" stored as "foo"
}

// ParseList reads public_suffix_list.dat syntax: one rule per line, "//"
// comments and blank lines skipped, a rule ends at the first whitespace.
func ParseList(r io.Reader) (*List, error) {
	l := &List{
		rules:      make(map[string]struct{}, 8192),
		wildcards:  make(map[string]struct{}, 64),
		exceptions: make(map[string]struct{}, 16),
	}

	scan := bufio.NewScanner(r)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if i := strings.IndexAny(line, " \t"); i != -1 {
			line = line[:i]
		}
		line = strings.ToLower(line)

		switch {
		case strings.HasPrefix(line, "!"):
			l.exceptions[line[1:]] = struct{}{}
		case strings.HasPrefix(line, "*."):
			l.wildcards[line[2:]] = struct{}{}
		default:
			l.rules[line] = struct{}{}
		}
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("scan suffix list: %w", err)
	}
	if l.Len() == 0 {
		return nil, fmt.Errorf("suffix list contains no rules")
	}
	return l, nil
}

// LoadFile parses a local copy of the suffix list.
func LoadFile(path string) (*List, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open suffix list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ParseList(f)
}

// Len returns the total number of rules.
func (l *List) Len() int {
	return len(l.rules) + len(l.wildcards) + len(l.exceptions)
}

// PublicSuffix implements domain.SuffixOracle.
func (l *List) PublicSuffix(host string) (string, error) {
	host, err := checkHost(host)
	if err != nil {
		return "", err
	}

	labels := strings.Split(host, ".")
	n := len(labels)
	for i := 0; i < n; i++ {
		cand := strings.Join(labels[i:], ".")
		if _, ok := l.exceptions[cand]; ok {
			// An exception rule's suffix is the rule minus its leftmost label.
			return strings.Join(labels[i+1:], "."), nil
		}
		if _, ok := l.rules[cand]; ok {
			return cand, nil
		}
		if i+1 < n {
			if _, ok := l.wildcards[strings.Join(labels[i+1:], ".")]; ok {
				return cand, nil
			}
		}
	}

	// Implicit "*" rule: the rightmost label is the suffix.
	return labels[n-1], nil
}

// BaseDomain implements domain.SuffixOracle.
func (l *List) BaseDomain(host string) (string, error) {
	normalized, err := checkHost(host)
	if err != nil {
		return "", err
	}
	suffix, err := l.PublicSuffix(normalized)
	if err != nil {
		return "", err
	}
	return baseOf(normalized, suffix)
}

// baseOf builds the eTLD+1 from a host and its public suffix.
func baseOf(host, suffix string) (string, error) {
	if host == suffix {
		return "", &domain.DomainResolutionError{
			Host: host,
			Err:  fmt.Errorf("host is a public suffix"),
		}
	}
	rest := host[:len(host)-len(suffix)-1]
	if i := strings.LastIndexByte(rest, '.'); i != -1 {
		rest = rest[i+1:]
	}
	return rest + "." + suffix, nil
}

// checkHost lowercases host, drops a trailing dot and rejects inputs that
// have no registrable domain.
func checkHost(host string) (string, error) {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	switch {
	case host == "":
		return "", &domain.DomainResolutionError{Host: host, Err: fmt.Errorf("empty host")}
	case host[0] == '.':
		return "", &domain.DomainResolutionError{Host: host, Err: fmt.Errorf("host has leading dot")}
	case strings.Contains(host, ".."):
		return "", &domain.DomainResolutionError{Host: host, Err: fmt.Errorf("host has empty label")}
	}
	if ip := net.ParseIP(host); ip != nil {
		return "", &domain.DomainResolutionError{Host: host, Err: fmt.Errorf("ip literal has no registrable domain")}
	}
	return host, nil
}
