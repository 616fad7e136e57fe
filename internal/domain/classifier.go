package domain

// DefaultFixtureURLs is the compiled-in test-fixture allow list: request URLs
// that are always classified as third-party so that local fixtures behave
// like real cross-site requests.
var DefaultFixtureURLs = []string{
	"https://dnt-test.trackersimulator.org/",
}

// Classifier decides whether a request is third-party relative to the
// document that issued it, by comparing registrable base domains.
type Classifier struct {
	hierarchy *Hierarchy
	fixtures  map[string]struct{}
	resolver  WindowResolver
}

// NewClassifier builds a classifier over the given oracle. fixtureURLs is the
// exact-match allow list of URLs forced to third-party (pass
// DefaultFixtureURLs for production behavior). resolver supplies document
// context for IsThirdPartyChannel and may be nil, in which case every
// channel lookup is treated as unresolved.
func NewClassifier(oracle SuffixOracle, fixtureURLs []string, resolver WindowResolver) *Classifier {
	fixtures := make(map[string]struct{}, len(fixtureURLs))
	for _, u := range fixtureURLs {
		fixtures[u] = struct{}{}
	}
	return &Classifier{
		hierarchy: NewHierarchy(oracle),
		fixtures:  fixtures,
		resolver:  resolver,
	}
}

// Hierarchy exposes the domain-hierarchy walker backed by the same oracle.
func (c *Classifier) Hierarchy() *Hierarchy {
	return c.hierarchy
}

// Verdict is the full result of a URI classification: the boolean answer
// plus the base domains it was derived from. The base domains are empty for
// fixture URLs, which are forced to third-party before any parsing happens.
type Verdict struct {
	ThirdParty         bool
	RequestBaseDomain  string
	DocumentBaseDomain string
}

// ClassifyURI classifies requestURL against documentURL: third-party iff
// their base domains differ. Fixture URLs short-circuit to third-party
// before any parsing. Malformed URLs fail with *URLParseError and hosts
// without a registrable domain with *DomainResolutionError; callers decide
// default policy for failures.
func (c *Classifier) ClassifyURI(requestURL, documentURL string) (Verdict, error) {
	if c.isFixture(requestURL) {
		return Verdict{ThirdParty: true}, nil
	}

	req, err := Normalize(requestURL)
	if err != nil {
		return Verdict{}, err
	}
	doc, err := Normalize(documentURL)
	if err != nil {
		return Verdict{}, err
	}

	reqBase, err := c.hierarchy.BaseDomain(req.Host)
	if err != nil {
		return Verdict{}, err
	}
	docBase, err := c.hierarchy.BaseDomain(doc.Host)
	if err != nil {
		return Verdict{}, err
	}

	return Verdict{
		ThirdParty:         reqBase != docBase,
		RequestBaseDomain:  reqBase,
		DocumentBaseDomain: docBase,
	}, nil
}

// IsThirdPartyURI reports whether requestURL is third-party relative to
// documentURL.
func (c *Classifier) IsThirdPartyURI(requestURL, documentURL string) (bool, error) {
	v, err := c.ClassifyURI(requestURL, documentURL)
	if err != nil {
		return false, err
	}
	return v.ThirdParty, nil
}

// IsThirdPartyChannel classifies a request when only its own URL plus the
// ambient channel context is available. Unlike IsThirdPartyURI it never
// fails: when the document context cannot be resolved, or either URL cannot
// be classified, the request is treated as first-party. One unclassified
// request leaking beats broken browsing.
func (c *Classifier) IsThirdPartyChannel(requestURL string) bool {
	if c.isFixture(requestURL) {
		return true
	}
	if c.resolver == nil {
		return false
	}
	documentURL, ok := c.resolver.Resolve(requestURL)
	if !ok {
		return false
	}
	third, err := c.IsThirdPartyURI(requestURL, documentURL)
	if err != nil {
		return false
	}
	return third
}

func (c *Classifier) isFixture(rawURL string) bool {
	_, ok := c.fixtures[rawURL]
	return ok
}
