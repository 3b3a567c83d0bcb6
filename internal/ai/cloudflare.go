package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
)

// DefaultCloudflareBaseURL is the Cloudflare v4 API root.
const DefaultCloudflareBaseURL = "https://api.cloudflare.com/client/v4"

type cloudflareError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cloudflareResult struct {
	Name     string `json:"name"`
	MIMEType string `json:"mimeType"`
	Format   string `json:"format"`
	Tokens   int    `json:"tokens"`
	Data     string `json:"data"`
}

type cloudflareResponse struct {
	Success bool               `json:"success"`
	Result  []cloudflareResult `json:"result"`
	Errors  []cloudflareError  `json:"errors"`
}

// cloudflareBinding calls the Workers AI toMarkdown REST endpoint.
// All documents are sent in one multipart request.
type cloudflareBinding struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *slog.Logger
}

func newCloudflareBinding(baseURL, accountID, token string, timeout time.Duration, logger *slog.Logger) (*cloudflareBinding, error) {
	if accountID == "" {
		return nil, fmt.Errorf("account_id required for cloudflare provider")
	}
	if token == "" {
		return nil, fmt.Errorf("api_token required for cloudflare provider")
	}
	if baseURL == "" {
		baseURL = DefaultCloudflareBaseURL
	}

	return &cloudflareBinding{
		endpoint: fmt.Sprintf("%s/accounts/%s/ai/tomarkdown", strings.TrimRight(baseURL, "/"), accountID),
		token:    token,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

func (b *cloudflareBinding) ToMarkdown(ctx context.Context, docs []Document) ([]Result, error) {
	body, contentType, err := encodeDocuments(docs)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+b.token)
	req.Header.Set("Content-Type", contentType)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tomarkdown request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusRequestEntityTooLarge {
		return nil, fmt.Errorf("%w: tomarkdown returned %s", ErrPayloadTooLarge, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var payload cloudflareResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("tomarkdown returned %s: invalid response body", resp.Status)
	}

	if !payload.Success || resp.StatusCode >= 400 {
		if hasCloudflareCode(payload.Errors, OversizedCode) {
			return nil, fmt.Errorf("%w: tomarkdown returned %s: %s", ErrPayloadTooLarge, resp.Status, formatCloudflareErrors(payload.Errors))
		}
		return nil, fmt.Errorf("tomarkdown returned %s: %s", resp.Status, formatCloudflareErrors(payload.Errors))
	}

	results := make([]Result, len(payload.Result))
	for i, r := range payload.Result {
		results[i] = Result{
			Name:     r.Name,
			MIMEType: r.MIMEType,
			Format:   r.Format,
			Tokens:   r.Tokens,
			Data:     r.Data,
		}
	}

	b.logger.Debug("tomarkdown completed", "documents", len(docs), "results", len(results))
	return results, nil
}

func encodeDocuments(docs []Document) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, doc := range docs {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, doc.Name))
		h.Set("Content-Type", doc.MIMEType)

		part, err := mw.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part: %w", err)
		}
		if _, err := part.Write(doc.Blob); err != nil {
			return nil, "", fmt.Errorf("write part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func hasCloudflareCode(errs []cloudflareError, code int) bool {
	for _, e := range errs {
		if e.Code == code {
			return true
		}
	}
	return false
}

func formatCloudflareErrors(errs []cloudflareError) string {
	if len(errs) == 0 {
		return "unknown error"
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = fmt.Sprintf("%d: %s", e.Code, e.Message)
	}
	return strings.Join(msgs, "; ")
}
