package workshop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"mappack/internal/services"
)

// FileDetails is the platform's metadata record for a published asset.
type FileDetails struct {
	ExternalID string
	Title      string
	FileName   string // authoritative internal file name, often empty
	FileURL    string // CDN location of the packed container
	PreviewURL string // thumbnail source image
	FileSize   int64
}

// Platform defines the metadata operations the resolver and assembler need.
type Platform interface {
	CollectionDetails(ctx context.Context, collectionID string) ([]string, error)
	PublishedFileDetails(ctx context.Context, externalIDs ...string) ([]FileDetails, error)
}

// Client talks to the asset platform's web API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	retry      services.RetryPolicy
}

var _ Platform = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetry overrides the default retry policy.
func WithRetry(policy services.RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// New creates a platform client.
func New(baseURL, apiKey string, timeout time.Duration, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("workshop base url required")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
		retry:      services.DefaultRetry,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type collectionResponse struct {
	Response struct {
		Details []struct {
			PublishedFileID string `json:"publishedfileid"`
			Result          int    `json:"result"`
			Children        []struct {
				PublishedFileID string `json:"publishedfileid"`
				SortOrder       int    `json:"sortorder"`
			} `json:"children"`
		} `json:"collectiondetails"`
	} `json:"response"`
}

// CollectionDetails returns the collection's child asset IDs in collection
// order.
func (c *Client) CollectionDetails(ctx context.Context, collectionID string) ([]string, error) {
	collectionID = strings.TrimSpace(collectionID)
	if collectionID == "" {
		return nil, errors.New("collection id required")
	}

	form := url.Values{}
	form.Set("collectioncount", "1")
	form.Set("publishedfileids[0]", collectionID)

	var parsed collectionResponse
	if err := c.postForm(ctx, "/ISteamRemoteStorage/GetCollectionDetails/v1/", form, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Response.Details) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "workshop", "collection", collectionID, nil)
	}

	detail := parsed.Response.Details[0]
	if detail.Result != 1 {
		return nil, services.Wrap(services.ErrNotFound, "workshop", "collection",
			fmt.Sprintf("%s: platform result %d", collectionID, detail.Result), nil)
	}

	children := detail.Children
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].SortOrder < children[j].SortOrder
	})

	ids := make([]string, 0, len(children))
	for _, child := range children {
		if strings.TrimSpace(child.PublishedFileID) != "" {
			ids = append(ids, child.PublishedFileID)
		}
	}
	return ids, nil
}

type fileDetailsResponse struct {
	Response struct {
		Details []struct {
			PublishedFileID string `json:"publishedfileid"`
			Result          int    `json:"result"`
			Title           string `json:"title"`
			FileName        string `json:"filename"`
			FileURL         string `json:"file_url"`
			PreviewURL      string `json:"preview_url"`
			FileSize        int64  `json:"file_size"`
		} `json:"publishedfiledetails"`
	} `json:"response"`
}

// PublishedFileDetails fetches metadata for the given asset IDs. Assets the
// platform reports as missing are omitted from the result rather than
// failing the whole batch.
func (c *Client) PublishedFileDetails(ctx context.Context, externalIDs ...string) ([]FileDetails, error) {
	if len(externalIDs) == 0 {
		return nil, nil
	}

	form := url.Values{}
	form.Set("itemcount", strconv.Itoa(len(externalIDs)))
	for i, id := range externalIDs {
		form.Set(fmt.Sprintf("publishedfileids[%d]", i), strings.TrimSpace(id))
	}

	var parsed fileDetailsResponse
	if err := c.postForm(ctx, "/ISteamRemoteStorage/GetPublishedFileDetails/v1/", form, &parsed); err != nil {
		return nil, err
	}

	details := make([]FileDetails, 0, len(parsed.Response.Details))
	for _, d := range parsed.Response.Details {
		if d.Result != 1 {
			continue
		}
		details = append(details, FileDetails{
			ExternalID: d.PublishedFileID,
			Title:      strings.TrimSpace(d.Title),
			FileName:   strings.TrimSpace(d.FileName),
			FileURL:    strings.TrimSpace(d.FileURL),
			PreviewURL: strings.TrimSpace(d.PreviewURL),
			FileSize:   d.FileSize,
		})
	}
	return details, nil
}

// postForm submits the form and decodes the JSON body. Only the network
// round trip sits inside the retry loop: request construction and body
// decoding are deterministic, so their failures surface immediately instead
// of burning retry attempts.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	if c.apiKey != "" {
		form.Set("key", c.apiKey)
	}
	endpoint := c.baseURL + path
	payload := form.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var body []byte
	err = c.retry.Do(ctx, func() error {
		attempt := req.Clone(ctx)
		attempt.Body = io.NopCloser(strings.NewReader(payload))
		attempt.ContentLength = int64(len(payload))

		resp, err := c.httpClient.Do(attempt)
		if err != nil {
			return services.Wrap(services.ErrTransient, "workshop", "request", endpoint, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return services.Wrap(services.ErrTransient, "workshop", "request",
				fmt.Sprintf("%s: status %d", endpoint, resp.StatusCode), nil)
		}
		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return services.Wrap(services.ErrTransient, "workshop", "request", endpoint, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
