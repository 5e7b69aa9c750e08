// Package license talks to the license server and caches its verdict.
package license

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ryanuber/go-glob"
)

var ErrKeyRequired = errors.New("the license key must not be empty")

// Status is the result of a license validation.
type Status struct {
	Valid     bool      `json:"valid"`
	Offline   bool      `json:"offline,omitempty"`
	Error     string    `json:"error,omitempty"`
	Features  []string  `json:"features,omitempty"`
	MaxUsers  int       `json:"maxUsers,omitempty"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Client validates the installation against the license server.
type Client struct {
	ServerURL string
	KeyFile   string
	Domain    string

	// CacheFor is how long a validation result is served without asking
	// the license server again.
	CacheFor time.Duration

	// OfflineGrace is how long the last successful validation keeps the
	// license valid while the license server is unreachable.
	OfflineGrace time.Duration

	httpClient *http.Client

	mutex    sync.Mutex
	cached   *Status
	lastGood *Status
}

// New returns a license client configured from the environment. The server
// URL comes from LICENSE_SERVER_URL, the key from LICENSE_KEY or the key
// file.
func New() *Client {
	server := os.Getenv("LICENSE_SERVER_URL")
	if server == "" {
		server = "http://localhost:5010"
	}

	return &Client{
		ServerURL:    server,
		KeyFile:      "license.key",
		Domain:       "localhost",
		CacheFor:     10 * time.Second,
		OfflineGrace: 7 * 24 * time.Hour,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Key returns the configured license key. LICENSE_KEY takes precedence over
// the key file.
func (c *Client) Key() string {
	if key := os.Getenv("LICENSE_KEY"); key != "" {
		return strings.TrimSpace(key)
	}

	raw, err := os.ReadFile(c.KeyFile)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(string(raw))
}

// HardwareID derives a stable identifier for this installation from the
// machine ID and the hostname.
func HardwareID() string {
	var identifiers []string

	if raw, err := os.ReadFile("/etc/machine-id"); err == nil {
		identifiers = append(identifiers, strings.TrimSpace(string(raw)))
	}

	if hostname, err := os.Hostname(); err == nil {
		identifiers = append(identifiers, hostname)
	}

	sum := sha256.Sum256([]byte(strings.Join(identifiers, "|")))
	return hex.EncodeToString(sum[:])[:32]
}

type validateRequest struct {
	LicenseKey string `json:"license_key"`
	HardwareID string `json:"hardware_id"`
	Domain     string `json:"domain"`
}

type validateResponse struct {
	Valid    bool     `json:"valid"`
	Error    string   `json:"error"`
	Features []string `json:"features"`
	MaxUsers int      `json:"max_users"`
}

// Status validates the license. Results are cached for a short window so
// that checking the license per request stays cheap.
func (c *Client) Status() Status {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.cached != nil && time.Since(c.cached.CheckedAt) < c.CacheFor {
		return *c.cached
	}

	return c.validate()
}

// validate asks the license server for a verdict. The caller must hold the
// mutex.
func (c *Client) validate() Status {
	key := c.Key()
	if key == "" {
		return c.cache(Status{Error: "no license key configured"})
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	payload, err := json.Marshal(validateRequest{
		LicenseKey: key,
		HardwareID: HardwareID(),
		Domain:     c.Domain,
	})
	if err != nil {
		return c.cache(Status{Error: err.Error()})
	}

	resp, err := c.httpClient.Post(c.ServerURL+"/api/validate", "application/json", bytes.NewReader(payload))
	if err != nil {
		// Within the grace window, the last successful validation keeps
		// the instance running
		if c.lastGood != nil && time.Since(c.lastGood.CheckedAt) < c.OfflineGrace {
			status := *c.lastGood
			status.Offline = true
			return status
		}

		return c.cache(Status{Error: "cannot connect to the license server"})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.cache(Status{Error: fmt.Sprintf("license server returned status %d", resp.StatusCode)})
	}

	var data validateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return c.cache(Status{Error: "invalid response from the license server"})
	}

	status := Status{
		Valid:    data.Valid,
		Error:    data.Error,
		Features: data.Features,
		MaxUsers: data.MaxUsers,
	}

	if !status.Valid && status.Error == "" {
		status.Error = "license validation failed"
	}

	return c.cache(status)
}

func (c *Client) cache(status Status) Status {
	status.CheckedAt = time.Now()
	c.cached = &status

	if status.Valid {
		good := status
		c.lastGood = &good
	}

	return status
}

// FeatureEnabled reports whether the license enables a feature. Feature
// patterns support * wildcards, a literal "all" enables everything.
func (c *Client) FeatureEnabled(name string) bool {
	status := c.Status()
	if !status.Valid {
		return false
	}

	for _, pattern := range status.Features {
		if pattern == "all" || glob.Glob(pattern, name) {
			return true
		}
	}

	return false
}

// Activate stores a new license key and drops the cached verdict so the next
// validation uses the new key.
func (c *Client) Activate(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrKeyRequired
	}

	if err := os.WriteFile(c.KeyFile, []byte(key+"\n"), 0o600); err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.cached = nil
	c.lastGood = nil

	return nil
}
