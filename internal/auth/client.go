package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrAuthFailed = errors.New("authorization failed")

const defaultNickname = "Unknown"

// Identity is what the authorization server tells us about a user code.
type Identity struct {
	UserID   string
	Nickname string
}

// Client talks to the external authorization server. It makes exactly one
// attempt per call.
type Client struct {
	serverURL   string
	appID       string
	appSecret   string
	redirectURI string
	httpClient  *http.Client
}

func NewClient(serverURL, appID, appSecret, redirectURI string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		serverURL:   strings.TrimRight(serverURL, "/"),
		appID:       appID,
		appSecret:   appSecret,
		redirectURI: redirectURI,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// AuthorizeURL is where anonymous users are sent to log in.
func (c *Client) AuthorizeURL() string {
	q := url.Values{}
	q.Set("app_id", c.appID)
	q.Set("redirect_uri", c.redirectURI)
	return c.serverURL + "/authc?" + q.Encode()
}

// FetchIdentity exchanges a one-time user code for the user's identity.
// Every failure, including transport errors, wraps ErrAuthFailed.
func (c *Client) FetchIdentity(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, fmt.Errorf("empty code: %w", ErrAuthFailed)
	}

	q := url.Values{}
	q.Set("app_secret", c.appSecret)
	q.Set("user_code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/auth/app/user?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: user info returned %s", ErrAuthFailed, resp.Status)
	}

	var body map[string]any
	dec := json.NewDecoder(io.LimitReader(resp.Body, 1<<20))
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decoding user info: %v", ErrAuthFailed, err)
	}

	userID := scalarString(body["user_id"])
	if userID == "" {
		return nil, fmt.Errorf("%w: no user_id in response", ErrAuthFailed)
	}

	nickname := scalarString(body["nickname"])
	if nickname == "" {
		nickname = defaultNickname
	}

	return &Identity{UserID: userID, Nickname: nickname}, nil
}

// scalarString accepts both string and numeric JSON values.
func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
