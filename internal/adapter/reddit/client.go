package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"redscrape/internal/domain"
)

const (
	DefaultAuthURL = "https://www.reddit.com/api/v1/access_token"
	DefaultAPIURL  = "https://oauth.reddit.com"

	// pageSize is the largest page the listing endpoint serves.
	pageSize = 100
)

var ErrAuth = errors.New("reddit authentication failed")

// Credentials identify a script application and the account it acts for.
type Credentials struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	Username     string
	Password     string
}

// Options select the feed and endpoints.
type Options struct {
	Subreddit string
	AuthURL   string
	APIURL    string
	Timeout   time.Duration
}

// Client reads top posts of one subreddit through the OAuth API.
type Client struct {
	creds     Credentials
	subreddit string
	authURL   string
	apiURL    string
	client    *http.Client
	token     string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error,omitempty"`
}

type listingResponse struct {
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string   `json:"kind"`
			Data postData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type postData struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Score         int     `json:"score"`
	CreatedUTC    float64 `json:"created_utc"`
	LinkFlairText *string `json:"link_flair_text"`
	Selftext      string  `json:"selftext"`
	Author        string  `json:"author"`
}

func NewClient(creds Credentials, opts Options) *Client {
	if opts.AuthURL == "" {
		opts.AuthURL = DefaultAuthURL
	}
	if opts.APIURL == "" {
		opts.APIURL = DefaultAPIURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		creds:     creds,
		subreddit: opts.Subreddit,
		authURL:   opts.AuthURL,
		apiURL:    strings.TrimSuffix(opts.APIURL, "/"),
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// TopPosts fetches up to limit top posts of the subreddit over timeFilter
// (hour, day, week, month, year, all), following the listing cursor.
func (c *Client) TopPosts(ctx context.Context, timeFilter string, limit int, progress func(fetched int)) ([]domain.Post, error) {
	if c.token == "" {
		if err := c.authenticate(ctx); err != nil {
			return nil, err
		}
	}

	var posts []domain.Post
	after := ""
	for limit <= 0 || len(posts) < limit {
		n := pageSize
		if limit > 0 && limit-len(posts) < n {
			n = limit - len(posts)
		}

		listing, err := c.fetchPage(ctx, timeFilter, n, after)
		if err != nil {
			return nil, err
		}
		for _, child := range listing.Data.Children {
			posts = append(posts, child.Data.post())
		}
		if progress != nil {
			progress(len(posts))
		}

		after = listing.Data.After
		if after == "" || len(listing.Data.Children) == 0 {
			break
		}
	}

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (c *Client) authenticate(ctx context.Context) error {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {c.creds.Username},
		"password":   {c.creds.Password},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d: %s", ErrAuth, resp.StatusCode, snippet(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return fmt.Errorf("failed to parse token response: %w", err)
	}
	if tr.Error != "" || tr.AccessToken == "" {
		return fmt.Errorf("%w: %s", ErrAuth, tr.Error)
	}

	c.token = tr.AccessToken
	return nil
}

func (c *Client) fetchPage(ctx context.Context, timeFilter string, n int, after string) (*listingResponse, error) {
	q := url.Values{
		"t":        {timeFilter},
		"limit":    {strconv.Itoa(n)},
		"raw_json": {"1"},
	}
	if after != "" {
		q.Set("after", after)
	}
	endpoint := fmt.Sprintf("%s/r/%s/top?%s", c.apiURL, url.PathEscape(c.subreddit), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+c.token)
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read listing: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: listing rejected the access token", ErrAuth)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("listing error (status %d): %s", resp.StatusCode, snippet(body))
	}

	var listing listingResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse listing: %w", err)
	}
	return &listing, nil
}

func (d postData) post() domain.Post {
	p := domain.Post{
		ID:      d.ID,
		Title:   d.Title,
		Score:   d.Score,
		Created: time.Unix(int64(d.CreatedUTC), 0).UTC(),
		Body:    d.Selftext,
	}
	if d.LinkFlairText != nil {
		p.Flair = domain.StringPtr(*d.LinkFlairText)
	}
	// deleted accounts have no identity
	if d.Author != "" && d.Author != "[deleted]" {
		p.Author = domain.StringPtr(d.Author)
	}
	return p
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
