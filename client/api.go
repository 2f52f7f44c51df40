// Package client talks to the results API and holds the admin session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"results-portal/models"

	"github.com/pkg/errors"
)

var (
	ErrNotFound            = errors.New("result not found")
	ErrDuplicateRollNumber = errors.New("roll number already exists")
	ErrInvalidResult       = errors.New("invalid result data")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthorized        = errors.New("unauthorized")
)

// TransportError covers network failures and unexpected server responses.
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("request failed: %v", e.Err)
	}
	return fmt.Sprintf("server responded %d: %s", e.Status, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Client calls the results API. Requests carry the session's bearer token
// whenever one is present.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, session *Session) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: &tokenTransport{base: http.DefaultTransport, session: session}},
	}
}

type tokenTransport struct {
	base    http.RoundTripper
	session *Session
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.session == nil || !t.session.IsAuthenticated() {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.session.Token())
	return t.base.RoundTrip(req)
}

func (c *Client) SearchResult(ctx context.Context, rollNumber string) (*models.Result, error) {
	var out models.ResultResponse
	status, msg, err := c.do(ctx, http.MethodGet, "/results/"+url.PathEscape(rollNumber), nil, &out)
	if err != nil {
		return nil, err
	}
	switch status {
	case http.StatusOK:
		return out.Result, nil
	case http.StatusNotFound:
		return nil, ErrNotFound
	}
	return nil, &TransportError{Status: status, Message: msg}
}

func (c *Client) AdminLogin(ctx context.Context, creds models.Credentials) (string, error) {
	var out models.JWT
	status, msg, err := c.do(ctx, http.MethodPost, "/admin/login", creds, &out)
	if err != nil {
		return "", err
	}
	switch {
	case status == http.StatusOK && out.Token != "":
		return out.Token, nil
	case status == http.StatusUnauthorized:
		return "", ErrInvalidCredentials
	}
	return "", &TransportError{Status: status, Message: msg}
}

func (c *Client) AddResult(ctx context.Context, payload models.ResultPayload) (*models.Result, error) {
	return c.writeResult(ctx, http.MethodPost, "/results", payload, http.StatusCreated)
}

func (c *Client) UpdateResult(ctx context.Context, id string, payload models.ResultPayload) (*models.Result, error) {
	return c.writeResult(ctx, http.MethodPut, "/results/"+url.PathEscape(id), payload, http.StatusOK)
}

func (c *Client) DeleteResult(ctx context.Context, id string) error {
	status, msg, err := c.do(ctx, http.MethodDelete, "/results/"+url.PathEscape(id), nil, nil)
	if err != nil {
		return err
	}
	if status == http.StatusOK {
		return nil
	}
	return adminError(status, msg)
}

func (c *Client) writeResult(ctx context.Context, method, path string, payload models.ResultPayload, want int) (*models.Result, error) {
	var out models.ResultResponse
	status, msg, err := c.do(ctx, method, path, payload, &out)
	if err != nil {
		return nil, err
	}
	if status == want {
		return out.Result, nil
	}
	return nil, adminError(status, msg)
}

func adminError(status int, msg string) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusBadRequest:
		if msg == "Roll number already exists" {
			return ErrDuplicateRollNumber
		}
		return ErrInvalidResult
	}
	return &TransportError{Status: status, Message: msg}
}

// do sends a JSON request. On 2xx the body is decoded into out; otherwise the
// server's error message is returned alongside the status.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) (int, string, error) {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return 0, "", errors.Wrap(err, "encode request")
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, "", &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return resp.StatusCode, "", &TransportError{Status: resp.StatusCode, Err: errors.Wrap(err, "decode response")}
			}
		}
		return resp.StatusCode, "", nil
	}

	var apiErr models.Error
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return resp.StatusCode, apiErr.Message, nil
}
