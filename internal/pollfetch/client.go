// Package pollfetch extracts poll content from public t.me message links so
// quizzes can be cloned into the local store.
package pollfetch

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"

	"quizbot/internal/domain"
)

var (
	// ErrNotMessageLink is returned for URLs that are not t.me message links.
	ErrNotMessageLink = errors.New("not a telegram message link")
	// ErrNoPollFound is returned when the linked message carries no poll.
	ErrNoPollFound = errors.New("no poll found in message")
)

var (
	linkPattern     = regexp.MustCompile(`t\.me/([A-Za-z0-9_]+)/(\d+)`)
	questionPattern = regexp.MustCompile(`(?s)tgme_widget_message_poll_question[^>]*>(.*?)</div>`)
	optionPattern   = regexp.MustCompile(`(?s)tgme_widget_message_poll_option_text[^>]*>(.*?)</`)
	tagPattern      = regexp.MustCompile(`<[^>]+>`)
)

// Client fetches the public embed page for a message and scrapes the poll
// question and options out of it.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, baseURL: "https://t.me"}
}

// NewClientWithBaseURL is test-only, pointing the client at a stub server.
func NewClientWithBaseURL(httpClient *http.Client, baseURL string) *Client {
	c := NewClient(httpClient)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Fetch resolves a t.me link into a question draft. The correct answer index
// is unknown to the public page, so it is left at zero; the caller asks the
// user to pick it before saving.
func (c *Client) Fetch(ctx context.Context, link string) (domain.Draft, error) {
	match := linkPattern.FindStringSubmatch(link)
	if match == nil {
		return domain.Draft{}, ErrNotMessageLink
	}
	channel, messageID := match[1], match[2]

	reqURL := fmt.Sprintf("%s/%s/%s?embed=1", c.baseURL, channel, messageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.Draft{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Draft{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Draft{}, fmt.Errorf("t.me returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Draft{}, err
	}
	return parseEmbed(string(body))
}

func parseEmbed(page string) (domain.Draft, error) {
	questionMatch := questionPattern.FindStringSubmatch(page)
	if questionMatch == nil {
		return domain.Draft{}, ErrNoPollFound
	}
	question := cleanFragment(questionMatch[1])

	var options []string
	for _, m := range optionPattern.FindAllStringSubmatch(page, -1) {
		if opt := cleanFragment(m[1]); opt != "" {
			options = append(options, opt)
		}
	}
	if question == "" || len(options) < 2 {
		return domain.Draft{}, ErrNoPollFound
	}

	return domain.Draft{
		Prompt:  question,
		Options: options,
	}, nil
}

func cleanFragment(fragment string) string {
	text := tagPattern.ReplaceAllString(fragment, "")
	return strings.TrimSpace(html.UnescapeString(text))
}
