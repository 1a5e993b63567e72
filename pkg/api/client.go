package api

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/httpclient"
	"github.com/ndgm-hq/ndgm-rfid-client/pkg/session"
)

// User is the profile shape shared with the session store.
type User = session.User

// Option is a functional option for configuring the client.
type Option func(*Client) error

// WithHTTPClient sets a custom transport.
func WithHTTPClient(hc httpclient.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("http client must not be nil")
		}
		c.http = hc
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(log Logger) Option {
	return func(c *Client) error {
		c.log = ensureLogger(log)
		return nil
	}
}

// Client talks to the NDGM RFID API using the credentials held in a session.
type Client struct {
	http      httpclient.Client
	session   *session.Session
	log       Logger
	requestID func() string
}

// New creates a Client over sess. Without WithHTTPClient a resty transport
// with no client-side timeout is used.
func New(sess *session.Session, opts ...Option) (*Client, error) {
	if sess == nil {
		return nil, errors.New("session must not be nil")
	}

	c := &Client{
		session:   sess,
		log:       noopLogger{},
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(httpclient.Options{})
	}
	return c, nil
}

// Base returns the base URL requests are resolved against.
func (c *Client) Base() string { return c.session.BaseURL() }

// SetBase stores a new base URL and returns its normalised form.
func (c *Client) SetBase(url string) (string, error) { return c.session.SetBaseURL(url) }

// Token returns the stored bearer token, or "".
func (c *Client) Token() string { return c.session.Token() }

// SetToken stores or clears the token and user.
func (c *Client) SetToken(token string, user *User) error { return c.session.SetToken(token, user) }

// StoredUser returns the user saved at login, or nil.
func (c *Client) StoredUser() *User { return c.session.StoredUser() }

// ClearAuth removes the stored token and user.
func (c *Client) ClearAuth() error { return c.session.ClearAuth() }
