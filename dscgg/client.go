package dscgg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the versioned dsc.gg API root.
const DefaultBaseURL = "https://api.dsc.gg/v2"

const defaultTimeout = 30 * time.Second

// Client talks to the dsc.gg API. It holds one HTTP transport that is safe
// for concurrent use; every operation is a single request/response cycle
// with no retries.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	strict     bool
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new dsc.gg client authenticating with the given API
// token.
func NewClient(token string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	client := &Client{
		baseURL:    DefaultBaseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.baseURL = strings.TrimRight(client.baseURL, "/")

	return client, nil
}

// Close releases the transport's idle connections. The client must not be
// used afterwards.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// envelope is the outer wrapper the v2 API puts around every response.
type envelope struct {
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

func (e *envelope) decode(v any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("response payload missing")
	}
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}
	return nil
}

// doRequest performs one authenticated request and returns the status code
// together with the decoded response envelope.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, params url.Values, body any) (int, *envelope, error) {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	env := &envelope{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, env); err != nil {
			// Gateways occasionally answer with plain text; keep it as the
			// error message and let the status code drive the outcome.
			env = &envelope{Message: strings.TrimSpace(string(raw))}
		}
	}

	return resp.StatusCode, env, nil
}

// checkStatus maps a read-operation status to an error under the configured
// policy. Rate limits always surface; in lenient mode every other failure
// except 403 is swallowed so the caller sees an absent/empty result.
func (c *Client) checkStatus(status int, env *envelope) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusTooManyRequests {
		return statusError(status, env.Code, env.Message)
	}
	if !c.strict && status != http.StatusForbidden {
		return nil
	}
	return statusError(status, env.Code, env.Message)
}

// requireOK surfaces every non-2xx status regardless of policy. Used by
// mutations and search, which must never drop failures silently.
func (c *Client) requireOK(status int, env *envelope) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return statusError(status, env.Code, env.Message)
}

// GetUser fetches a dsc.gg user by Discord ID. It returns (nil, nil) when
// the user does not exist.
func (c *Client) GetUser(ctx context.Context, id int64) (*User, error) {
	c.logger.Debug().Int64("user_id", id).Msg("Fetching dsc.gg user")

	status, env, err := c.doRequest(ctx, http.MethodGet, "/user/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err := c.checkStatus(status, env); err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		// Tolerated failure under the lenient policy.
		return nil, nil
	}

	var user User
	if err := env.decode(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetLink fetches a link by slug or full dsc.gg URL. It returns (nil, nil)
// when the link does not exist.
func (c *Client) GetLink(ctx context.Context, link string) (*Link, error) {
	slug := NormalizeSlug(link)
	c.logger.Debug().Str("slug", slug).Msg("Fetching dsc.gg link")

	status, env, err := c.doRequest(ctx, http.MethodGet, "/link/"+url.PathEscape(slug), nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err := c.checkStatus(status, env); err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}

	var result Link
	if err := env.decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetApp fetches a developer application by ID. It returns (nil, nil) when
// the app does not exist. The Key field is only populated when the caller
// owns the app.
func (c *Client) GetApp(ctx context.Context, id int64) (*App, error) {
	c.logger.Debug().Int64("app_id", id).Msg("Fetching dsc.gg app")

	status, env, err := c.doRequest(ctx, http.MethodGet, "/app/"+strconv.FormatInt(id, 10), nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, nil
	}
	if err := c.checkStatus(status, env); err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, nil
	}

	var app App
	if err := env.decode(&app); err != nil {
		return nil, err
	}
	return &app, nil
}

// GetUserLinks lists the links owned by a user. A user without links, or
// one that does not exist, yields an empty slice.
func (c *Client) GetUserLinks(ctx context.Context, id int64) ([]Link, error) {
	endpoint := "/user/" + strconv.FormatInt(id, 10) + "/links"
	return c.getLinkList(ctx, endpoint, nil)
}

// GetUserApps lists the developer applications owned by a user. A user
// without apps, or one that does not exist, yields an empty slice.
func (c *Client) GetUserApps(ctx context.Context, id int64) ([]App, error) {
	endpoint := "/user/" + strconv.FormatInt(id, 10) + "/apps"

	status, env, err := c.doRequest(ctx, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []App{}, nil
	}
	if err := c.checkStatus(status, env); err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return []App{}, nil
	}

	var apps []App
	if err := env.decode(&apps); err != nil {
		return nil, err
	}

	c.logger.Debug().Int64("user_id", id).Int("count", len(apps)).Msg("Retrieved user apps")
	return apps, nil
}

// GetTopLinks lists the current top-ranked links.
func (c *Client) GetTopLinks(ctx context.Context) ([]Link, error) {
	return c.getLinkList(ctx, "/top", nil)
}

// SearchOptions narrows a Search call. The zero value means no limit and
// no type filter.
type SearchOptions struct {
	// Limit caps the number of results; <= 0 means the service default.
	Limit int
	// Type restricts results to server, bot or template links,
	// case-insensitively. Invalid values are silently omitted.
	Type string
}

// Search queries the link database. A query with no matches yields an
// empty slice; any other failure surfaces regardless of the error policy.
func (c *Client) Search(ctx context.Context, query string, opts *SearchOptions) ([]Link, error) {
	params := url.Values{}
	params.Set("q", query)
	if opts != nil {
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if t, ok := ParseLinkType(opts.Type); ok {
			params.Set("type", string(t))
		}
	}

	c.logger.Debug().Str("query", query).Msg("Searching dsc.gg links")

	status, env, err := c.doRequest(ctx, http.MethodGet, "/search", params, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []Link{}, nil
	}
	if err := c.requireOK(status, env); err != nil {
		return nil, err
	}

	var links []Link
	if err := env.decode(&links); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("query", query).Int("count", len(links)).Msg("Search finished")
	return links, nil
}

// getLinkList fetches a list endpoint with tolerant not-found handling.
func (c *Client) getLinkList(ctx context.Context, endpoint string, params url.Values) ([]Link, error) {
	status, env, err := c.doRequest(ctx, http.MethodGet, endpoint, params, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []Link{}, nil
	}
	if err := c.checkStatus(status, env); err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return []Link{}, nil
	}

	var links []Link
	if err := env.decode(&links); err != nil {
		return nil, err
	}

	c.logger.Debug().Str("endpoint", endpoint).Int("count", len(links)).Msg("Retrieved links")
	return links, nil
}

// LinkOptions carries the optional fields of CreateLink.
type LinkOptions struct {
	Embed    *Embed
	Password string
	Unlisted bool
}

// UpdateOptions carries the optional fields of UpdateLink. Empty fields are
// left untouched on the service side.
type UpdateOptions struct {
	Redirect string
	Embed    *Embed
	Password string
	Unlisted bool
}

// linkBody is the request body shape shared by link create and update.
type linkBody struct {
	Type            LinkType `json:"type,omitempty"`
	Redirect        string   `json:"redirect,omitempty"`
	MetaTitle       string   `json:"meta_title,omitempty"`
	MetaDescription string   `json:"meta_description,omitempty"`
	MetaColor       string   `json:"meta_color,omitempty"`
	MetaImage       string   `json:"meta_image,omitempty"`
	Password        string   `json:"password,omitempty"`
	Unlisted        bool     `json:"unlisted,omitempty"`
}

func (b *linkBody) applyEmbed(embed *Embed) {
	b.MetaTitle = embed.Title
	b.MetaDescription = embed.Description
	b.MetaImage = embed.Image
	if embed.Color != nil {
		b.MetaColor = embed.Color.Hex()
	}
}

func (b *linkBody) applyRedirect(redirect string) {
	b.Type = ClassifyRedirect(redirect)
	b.Redirect = stripScheme(redirect)
}

// CreateLink registers a new short link pointing at redirect. The link may
// be given as a slug or a full dsc.gg URL; the redirect's scheme is
// stripped before transmission and its type derived from the target. The
// service answers 201 on success; the resulting status is returned.
func (c *Client) CreateLink(ctx context.Context, link, redirect string, opts *LinkOptions) (int, error) {
	slug := NormalizeSlug(link)
	if slug == "" {
		return 0, fmt.Errorf("%w: link slug must not be empty", ErrInvalidArgument)
	}
	if redirect == "" {
		return 0, fmt.Errorf("%w: redirect must not be empty", ErrInvalidArgument)
	}

	var body linkBody
	body.applyRedirect(redirect)
	if opts != nil {
		if opts.Embed != nil {
			body.applyEmbed(opts.Embed)
		}
		body.Password = opts.Password
		body.Unlisted = opts.Unlisted
	}

	c.logger.Debug().Str("slug", slug).Str("type", string(body.Type)).Msg("Creating dsc.gg link")

	status, env, err := c.doRequest(ctx, http.MethodPost, "/link/"+url.PathEscape(slug), nil, &body)
	if err != nil {
		return 0, err
	}
	if err := c.requireOK(status, env); err != nil {
		return status, err
	}

	c.logger.Debug().Str("slug", slug).Int("status", status).Msg("Link created")
	return status, nil
}

// UpdateLink modifies an existing link. Only the fields set in opts are
// sent; a new redirect is normalized and reclassified the same way
// CreateLink does.
func (c *Client) UpdateLink(ctx context.Context, link string, opts *UpdateOptions) (int, error) {
	slug := NormalizeSlug(link)
	if slug == "" {
		return 0, fmt.Errorf("%w: link slug must not be empty", ErrInvalidArgument)
	}

	var body linkBody
	if opts != nil {
		if opts.Redirect != "" {
			body.applyRedirect(opts.Redirect)
		}
		if opts.Embed != nil {
			body.applyEmbed(opts.Embed)
		}
		body.Password = opts.Password
		body.Unlisted = opts.Unlisted
	}

	c.logger.Debug().Str("slug", slug).Msg("Updating dsc.gg link")

	status, env, err := c.doRequest(ctx, http.MethodPatch, "/link/"+url.PathEscape(slug), nil, &body)
	if err != nil {
		return 0, err
	}
	if err := c.requireOK(status, env); err != nil {
		return status, err
	}

	c.logger.Debug().Str("slug", slug).Int("status", status).Msg("Link updated")
	return status, nil
}

// DeleteLink removes a link by slug or full dsc.gg URL.
func (c *Client) DeleteLink(ctx context.Context, link string) (int, error) {
	slug := NormalizeSlug(link)
	if slug == "" {
		return 0, fmt.Errorf("%w: link slug must not be empty", ErrInvalidArgument)
	}

	c.logger.Debug().Str("slug", slug).Msg("Deleting dsc.gg link")

	status, env, err := c.doRequest(ctx, http.MethodDelete, "/link/"+url.PathEscape(slug), nil, nil)
	if err != nil {
		return 0, err
	}
	if err := c.requireOK(status, env); err != nil {
		return status, err
	}

	c.logger.Debug().Str("slug", slug).Int("status", status).Msg("Link deleted")
	return status, nil
}
