// Package quotes fetches inspirational quotes from the quotable API.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	taskerrors "github.com/maxkimambo/manage/internal/errors"
	"github.com/maxkimambo/manage/internal/logger"
)

// DefaultTimeout bounds each quotes API request.
const DefaultTimeout = 10 * time.Second

// Quote is one quote and its author.
type Quote struct {
	Author  string `json:"author"`
	Content string `json:"quote"`
}

type apiQuote struct {
	Content string `json:"content"`
	Author  struct {
		Name string `json:"name"`
	} `json:"author"`
}

func (q apiQuote) toQuote() Quote {
	return Quote{Author: q.Author.Name, Content: q.Content}
}

// Client talks to the quotes API at BaseURL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Retry      RetryPolicy
}

// NewClient returns a client with DefaultTimeout.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Retry:      DefaultRetryPolicy(),
	}
}

// Random fetches one random quote.
func (c *Client) Random(ctx context.Context) (*Quote, error) {
	var body struct {
		Quote apiQuote `json:"quote"`
	}
	if err := c.get(ctx, c.BaseURL+"/random", &body); err != nil {
		return nil, err
	}
	q := body.Quote.toQuote()
	return &q, nil
}

// ByAuthor fetches the quotes attributed to author.
func (c *Client) ByAuthor(ctx context.Context, author string) ([]Quote, error) {
	var body struct {
		Data []apiQuote `json:"data"`
	}
	endpoint := c.BaseURL + "?" + url.Values{"author": {author}}.Encode()
	if err := c.get(ctx, endpoint, &body); err != nil {
		return nil, err
	}

	quotes := make([]Quote, 0, len(body.Data))
	for _, q := range body.Data {
		quotes = append(quotes, q.toQuote())
	}
	return quotes, nil
}

// Pick returns a random element of quotes, or nil when it is empty.
func Pick(quotes []Quote, rnd *rand.Rand) *Quote {
	if len(quotes) == 0 {
		return nil
	}
	var i int
	if rnd != nil {
		i = rnd.Intn(len(quotes))
	} else {
		i = rand.Intn(len(quotes))
	}
	return &quotes[i]
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.Retry.do(ctx, endpoint, func() (bool, error) {
		return c.fetch(ctx, endpoint, out)
	})
}

// fetch performs one request. Transport failures, 429 and 5xx are retryable.
func (c *Client) fetch(ctx context.Context, endpoint string, out interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, taskerrors.NewDownloadError(endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return ctx.Err() == nil, taskerrors.NewDownloadError(endpoint, err).
			WithTroubleshooting("Check your internet connection and try again")
	}
	defer resp.Body.Close()

	logger.Op.WithFields(map[string]interface{}{
		"url":    endpoint,
		"status": resp.StatusCode,
	}).Debug("quotes API response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return retryable, taskerrors.NewDownloadError(endpoint, fmt.Errorf("unexpected status %s", resp.Status)).
			WithContext("status", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, taskerrors.NewDownloadError(endpoint, fmt.Errorf("decode quote response: %w", err))
	}
	return false, nil
}
