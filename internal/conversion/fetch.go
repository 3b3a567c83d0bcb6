package conversion

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/JaimeStill/anytomarkdown/internal/config"
)

const defaultFetchName = "document"

var dispositionFilename = regexp.MustCompile(`filename[^;=\n]*=((['"]).*?['"]|[^;\n]*)`)

// Fetcher retrieves remote documents for URL conversion.
type Fetcher struct {
	client    *http.Client
	userAgent string
	policy    Policy
	logger    *slog.Logger
}

// NewFetcher creates a Fetcher from fetch configuration and the admission policy.
func NewFetcher(cfg *config.FetchConfig, policy Policy, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: cfg.TimeoutDuration()},
		userAgent: cfg.UserAgent,
		policy:    policy,
		logger:    logger.With("system", "fetch"),
	}
}

// ParseURL validates that raw is an absolute http or https URL. It never touches the network.
func ParseURL(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, NewError(ErrInvalidURL, MsgURLRequired)
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, NewError(ErrInvalidURL, MsgInvalidURL)
	}
	return u, nil
}

// Fetch downloads u and admits it as a Document.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Document{}, wrapError(ErrFetchFailed, "Failed to fetch URL: "+err.Error(), err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return Document{}, wrapError(ErrFetchFailed, "Failed to fetch URL: "+err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Document{}, NewError(ErrFetchFailed,
			strings.TrimSpace("Failed to fetch URL: "+resp.Status))
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, f.policy.MaxFileBytes+1))
	if err != nil {
		return Document{}, wrapError(ErrFetchFailed, "Failed to fetch URL: "+err.Error(), err)
	}

	mimeType := mediaType(resp.Header.Get("Content-Type"))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	name := FetchName(u, resp.Header.Get("Content-Disposition"))
	if mimeType == "text/html" {
		if title := HTMLTitle(content); title != "" {
			name = title
		}
	}

	if err := f.policy.Admit(name, mimeType, int64(len(content))); err != nil {
		return Document{}, err
	}

	f.logger.Debug("url fetched", "url", u.String(), "name", name, "mime_type", mimeType, "size", len(content))
	return Document{Name: name, MIMEType: mimeType, Content: content}, nil
}

// FetchName picks a document name from the Content-Disposition header,
// then the last URL path segment, then "document".
func FetchName(u *url.URL, disposition string) string {
	if name := dispositionName(disposition); name != "" {
		return name
	}
	segs := strings.Split(u.Path, "/")
	if last := segs[len(segs)-1]; last != "" {
		return last
	}
	return defaultFetchName
}

func dispositionName(disposition string) string {
	if disposition == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(disposition); err == nil {
		if name := params["filename"]; name != "" {
			return name
		}
	}
	m := dispositionFilename.FindStringSubmatch(disposition)
	if m == nil {
		return ""
	}
	return strings.Trim(strings.TrimSpace(m[1]), `'"`)
}

// HTMLTitle returns the trimmed text of the first <title> element, or "" when absent.
// Tokenizer errors end the scan without failing.
func HTMLTitle(content []byte) string {
	z := html.NewTokenizer(bytes.NewReader(content))
	inTitle := false
	var sb strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(sb.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if inTitle && string(name) == "title" {
				return strings.TrimSpace(sb.String())
			}
		case html.TextToken:
			if inTitle {
				sb.Write(z.Text())
			}
		}
	}
}
