package safety

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultEndpoint is the Google Safe Browsing v4 lookup endpoint.
const DefaultEndpoint = "https://safebrowsing.googleapis.com/v4/threatMatches:find"

// DefaultTimeout bounds the external lookup; exceeding it fails the
// check, which callers treat as a rejection.
const DefaultTimeout = 5 * time.Second

// threatTypes lists the categories treated as unsafe. Any match in any
// of them rejects the URL.
var threatTypes = []string{
	"MALWARE",
	"SOCIAL_ENGINEERING",
	"UNWANTED_SOFTWARE",
	"POTENTIALLY_HARMFUL_APPLICATION",
	"THREAT_TYPE_UNSPECIFIED",
}

type lookupRequest struct {
	Client     clientInfo `json:"client"`
	ThreatInfo threatInfo `json:"threatInfo"`
}

type clientInfo struct {
	ClientID      string `json:"clientId"`
	ClientVersion string `json:"clientVersion"`
}

type threatInfo struct {
	ThreatTypes      []string      `json:"threatTypes"`
	PlatformTypes    []string      `json:"platformTypes"`
	ThreatEntryTypes []string      `json:"threatEntryTypes"`
	ThreatEntries    []threatEntry `json:"threatEntries"`
}

type threatEntry struct {
	URL string `json:"url"`
}

type lookupResponse struct {
	Matches []json.RawMessage `json:"matches"`
}

// SafeBrowsingChecker queries the Safe Browsing threat-list API.
type SafeBrowsingChecker struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

// Option configures a SafeBrowsingChecker.
type Option func(*SafeBrowsingChecker)

// WithEndpoint overrides the lookup endpoint, used by tests.
func WithEndpoint(endpoint string) Option {
	return func(c *SafeBrowsingChecker) {
		c.endpoint = endpoint
	}
}

// WithTimeout overrides the lookup timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *SafeBrowsingChecker) {
		c.httpClient.Timeout = timeout
	}
}

// NewSafeBrowsingChecker creates a checker using the given API key.
func NewSafeBrowsingChecker(apiKey string, opts ...Option) *SafeBrowsingChecker {
	checker := &SafeBrowsingChecker{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		endpoint:   DefaultEndpoint,
		apiKey:     apiKey,
	}

	for _, opt := range opts {
		opt(checker)
	}

	return checker
}

// IsSafe looks the URL up against the configured threat lists. A match
// in any category means unsafe; transport or API failures return an
// error for the caller's fail-closed handling.
func (c *SafeBrowsingChecker) IsSafe(ctx context.Context, rawURL string) (bool, error) {
	body, err := json.Marshal(lookupRequest{
		Client: clientInfo{ClientID: "naturl", ClientVersion: "1.0"},
		ThreatInfo: threatInfo{
			ThreatTypes:      threatTypes,
			PlatformTypes:    []string{"ANY_PLATFORM"},
			ThreatEntryTypes: []string{"URL"},
			ThreatEntries:    []threatEntry{{URL: rawURL}},
		},
	})
	if err != nil {
		return false, fmt.Errorf("encoding threat lookup: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("building threat lookup request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("threat lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("threat lookup returned status %d", resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return false, fmt.Errorf("decoding threat lookup response: %w", err)
	}

	return len(decoded.Matches) == 0, nil
}

var _ Checker = (*SafeBrowsingChecker)(nil)
var _ Checker = (*StaticChecker)(nil)
