// Package client wraps the conversion API for Go consumers.
// Every call yields a Response shaped like the server envelope: transport
// failures are folded into Success=false rather than returned as errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

const (
	// MsgConnectFailed is reported when the server cannot be reached.
	MsgConnectFailed = "Unable to connect to the server. Please check your network connection."

	// MsgServiceUnavailable is reported when the status endpoint cannot be reached.
	MsgServiceUnavailable = "Service unavailable"
)

const defaultTimeout = 5 * time.Minute

// Result is one converted document.
type Result struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Format   string `json:"format"`
	Tokens   int    `json:"tokens"`
	Data     string `json:"data"`
}

// Response mirrors the server envelope. Status, Service, and Version are
// populated only by the status endpoint.
type Response struct {
	Success bool     `json:"success"`
	Result  *Result  `json:"result,omitempty"`
	Results []Result `json:"results,omitempty"`
	Errors  []string `json:"errors,omitempty"`
	Error   string   `json:"error,omitempty"`

	Status  string `json:"status,omitempty"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`
}

// All returns the converted documents regardless of which endpoint produced them.
func (r Response) All() []Result {
	if r.Result != nil {
		return []Result{*r.Result}
	}
	return r.Results
}

func failure(message string) Response {
	return Response{Success: false, Error: message}
}

// Client calls the conversion API.
type Client struct {
	baseURL string
	http    *http.Client
	policy  Policy
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithPolicy replaces the default pre-upload policy.
func WithPolicy(p Policy) Option {
	return func(c *Client) {
		c.policy = p
	}
}

// New creates a client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		policy:  DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the pre-upload policy applied before files are sent.
func (c *Client) Policy() Policy {
	return c.policy
}

// Status reports whether the service is online.
func (c *Client) Status(ctx context.Context) Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return failure(MsgServiceUnavailable)
	}
	resp, ok := c.do(req)
	if !ok {
		return failure(MsgServiceUnavailable)
	}
	return resp
}

// Convert uploads a single file to the single-file endpoint.
func (c *Client) Convert(ctx context.Context, file File) Response {
	if err := c.policy.Check(file); err != nil {
		return failure(err.Error())
	}
	body, contentType, err := encodeFiles([]File{file}, func(int) string { return "file" })
	if err != nil {
		return failure(err.Error())
	}
	return c.post(ctx, "/api/convert", contentType, body)
}

// ConvertBatch uploads files to the batch endpoint as fields file1..fileN.
// Files failing the pre-upload policy are skipped and reported in Errors;
// when none remain no request is sent.
func (c *Client) ConvertBatch(ctx context.Context, files []File) Response {
	if len(files) == 0 {
		return failure("No files were uploaded.")
	}

	var accepted []File
	var rejected []string
	for _, f := range files {
		if err := c.policy.Check(f); err != nil {
			rejected = append(rejected, err.Error())
			continue
		}
		accepted = append(accepted, f)
	}
	if len(accepted) == 0 {
		return failure("No valid files were uploaded: " + strings.Join(rejected, "; "))
	}

	body, contentType, err := encodeFiles(accepted, func(i int) string {
		return fmt.Sprintf("file%d", i+1)
	})
	if err != nil {
		return failure(err.Error())
	}

	resp := c.post(ctx, "/api/batch-convert", contentType, body)
	if resp.Success && len(rejected) > 0 {
		resp.Errors = append(rejected, resp.Errors...)
	}
	return resp
}

// ConvertURL asks the service to fetch and convert the document at target.
func (c *Client) ConvertURL(ctx context.Context, target string) Response {
	payload, err := json.Marshal(map[string]string{"url": target})
	if err != nil {
		return failure(err.Error())
	}
	return c.post(ctx, "/api/convert/url", "application/json", bytes.NewReader(payload))
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) Response {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return failure(MsgConnectFailed)
	}
	req.Header.Set("Content-Type", contentType)

	resp, ok := c.do(req)
	if !ok {
		return failure(MsgConnectFailed)
	}
	return resp
}

// do sends req and decodes the envelope from any HTTP response.
// It reports false only when no response was received.
func (c *Client) do(req *http.Request) (Response, bool) {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Response{}, false
	}
	defer resp.Body.Close()

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return failure(fmt.Sprintf("Unexpected response from server: %s", resp.Status)), true
	}
	if !out.Success && out.Error == "" {
		out.Error = fmt.Sprintf("Request failed: %s", resp.Status)
	}
	return out, true
}

func encodeFiles(files []File, field func(int) string) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for i, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field(i), f.Name))
		h.Set("Content-Type", f.MIMEType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("encode %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("encode %s: %w", f.Name, err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("encode form: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
