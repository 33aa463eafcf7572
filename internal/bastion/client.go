// Package bastion is the HTTP client for the Wallix bastion REST API. It is
// the only network-bound component; calls are synchronous with a fixed
// request timeout and no internal retries, so callers decide how to react to
// a failure.
package bastion

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/PAPAMICA/wallix-ssh/internal/config"
	"github.com/PAPAMICA/wallix-ssh/internal/models"
)

var (
	// ErrAuthFailed means the bastion rejected the credentials.
	ErrAuthFailed = errors.New("bastion authentication failed")
	// ErrFetchFailed wraps transport or status failures while fetching the
	// inventory.
	ErrFetchFailed = errors.New("bastion inventory fetch failed")
	// ErrUpdateFailed wraps transport or status failures while submitting
	// a device update.
	ErrUpdateFailed = errors.New("bastion device update failed")
)

// Client talks to one bastion instance with HTTP basic auth.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	logger     *slog.Logger
	progress   bool
}

// NewClient builds a client from the application config. Bastions commonly
// run with self-signed certificates, hence the configurable TLS skip.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify},
				Proxy:           nil,
			},
		},
		logger:   logger,
		progress: !cfg.Verbose,
	}
}

// SetPassword injects a password obtained interactively after construction.
func (c *Client) SetPassword(password string) { c.password = password }

// BastionHost returns the bastion hostname the SSH proxy target uses.
func (c *Client) BastionHost() string {
	u, err := url.Parse(c.baseURL)
	if err != nil || u.Host == "" {
		return c.baseURL
	}
	return u.Host
}

// Username returns the configured bastion account name.
func (c *Client) Username() string { return c.username }

func (c *Client) newRequest(method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)
	return req, nil
}

// Authenticate verifies the credentials against the API root. The bastion
// answers 204 on success.
func (c *Client) Authenticate() error {
	req, err := c.newRequest(http.MethodPost, "/api", nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: unexpected status %s", ErrAuthFailed, resp.Status)
	}
	return nil
}

// wireDevice mirrors the bastion's device representation.
type wireDevice struct {
	DeviceName  string `json:"device_name"`
	Host        string `json:"host"`
	Description string `json:"description,omitempty"`
	Services    []struct {
		ServiceName string `json:"service_name"`
	} `json:"services,omitempty"`
	Tags []wireTag `json:"tags,omitempty"`
}

type wireTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FetchInventory retrieves every device in a single request and converts the
// result into a timestamped snapshot.
func (c *Client) FetchInventory() (models.Snapshot, error) {
	c.logger.Info("retrieving machines from bastion", "url", c.baseURL)

	var bar *progressbar.ProgressBar
	if c.progress {
		bar = progressbar.NewOptions(-1,
			progressbar.OptionSetDescription("Fetching machines"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}

	req, err := c.newRequest(http.MethodGet, "/api/devices?limit=-1", nil)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	resp, err := c.httpClient.Do(req)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// 206 happens when the bastion caps the page size.
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		return models.Snapshot{}, fmt.Errorf("%w: unexpected status %s", ErrFetchFailed, resp.Status)
	}

	var devices []wireDevice
	if err := json.NewDecoder(resp.Body).Decode(&devices); err != nil {
		return models.Snapshot{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	snap := models.Snapshot{
		Version:   models.SnapshotVersion,
		FetchedAt: time.Now(),
		Machines:  make([]models.Machine, 0, len(devices)),
	}
	for _, d := range devices {
		snap.Machines = append(snap.Machines, d.toMachine())
	}
	c.logger.Info("retrieval completed", "machines", len(snap.Machines))
	return snap, nil
}

// SubmitUpdate PUTs the fully-merged device back to the bastion. The caller
// (the reconciliation manager) is responsible for merging unchanged fields
// into the machine first, since the API expects the complete document.
func (c *Client) SubmitUpdate(m models.Machine) error {
	payload, err := json.Marshal(fromMachine(m))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	req, err := c.newRequest(http.MethodPut, "/api/devices/"+url.PathEscape(m.Name), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %s: %s", ErrUpdateFailed, resp.Status, string(body))
	}
	c.logger.Info("device updated", "machine", m.Name)
	return nil
}

func (d wireDevice) toMachine() models.Machine {
	m := models.Machine{
		Name:        d.DeviceName,
		Host:        d.Host,
		Description: d.Description,
	}
	for _, s := range d.Services {
		m.Services = append(m.Services, s.ServiceName)
	}
	if len(d.Tags) > 0 {
		m.Tags = make(map[string]string, len(d.Tags))
		for _, t := range d.Tags {
			m.Tags[t.Key] = t.Value
		}
	}
	m.Targets = []models.Target{{Host: d.Host}}
	m.InteractiveAccount = m.HasService(models.ServiceSSH)
	return m
}

func fromMachine(m models.Machine) wireDevice {
	d := wireDevice{
		DeviceName:  m.Name,
		Host:        m.Host,
		Description: m.Description,
	}
	for _, t := range m.TagList() {
		// TagList yields sorted "key:value" strings; split them back so
		// the payload order is deterministic.
		key, value, _ := strings.Cut(t, ":")
		d.Tags = append(d.Tags, wireTag{Key: key, Value: value})
	}
	return d
}
