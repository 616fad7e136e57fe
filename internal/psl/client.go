package psl

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultListURL is the canonical location of the Public Suffix List.
const DefaultListURL = "https://publicsuffix.org/list/public_suffix_list.dat"

type Client struct {
	url  string
	http *http.Client
}

func NewClient(url string) *Client {
	if url == "" {
		url = DefaultListURL
	}
	return &Client{
		url: url,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchList implements the Fetcher interface: it downloads and parses the
// suffix list the configured URL serves.
func (c *Client) FetchList(ctx context.Context) (*List, error) {
	// Hard timeout for the whole operation, just to be safe.
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	list, err := ParseList(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Info("suffix list fetched",
		"url", c.url,
		"rules", len(list.rules),
		"wildcards", len(list.wildcards),
		"exceptions", len(list.exceptions))

	return list, nil
}

// URL reports the configured list location; used as the holder source tag.
func (c *Client) URL() string {
	return c.url
}
