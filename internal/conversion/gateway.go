package conversion

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/anytomarkdown/internal/ai"
)

// System converts admitted documents to Markdown.
type System interface {
	// Convert sends docs to the AI binding in a single call.
	// It returns one Result per document in input order, or an *Error.
	Convert(ctx context.Context, docs []Document) ([]Result, error)
}

type gateway struct {
	binding ai.Binding
	policy  Policy
	logger  *slog.Logger
}

// New creates the conversion System over binding.
func New(binding ai.Binding, policy Policy, logger *slog.Logger) System {
	return &gateway{
		binding: binding,
		policy:  policy,
		logger:  logger.With("system", "conversion"),
	}
}

func (g *gateway) Convert(ctx context.Context, docs []Document) ([]Result, error) {
	if len(docs) == 0 {
		return nil, NewError(ErrNoFiles, MsgNoFiles)
	}
	if len(docs) > g.policy.MaxBatchSize {
		return nil, BatchLimitError(g.policy.MaxBatchSize)
	}

	input := make([]ai.Document, len(docs))
	for i, d := range docs {
		input[i] = ai.Document{Name: d.Name, MIMEType: d.MIMEType, Blob: d.Content}
	}

	start := time.Now()
	out, err := g.binding.ToMarkdown(ctx, input)
	if err != nil {
		return nil, classify(err)
	}

	if len(out) != len(docs) {
		return nil, wrapError(ErrConversionFailed, MsgConversionFailed,
			fmt.Errorf("binding returned %d results for %d documents", len(out), len(docs)))
	}

	results := make([]Result, len(out))
	for i, r := range out {
		results[i] = normalize(r, docs[i])
	}

	g.logger.Info("documents converted",
		"documents", len(docs),
		"tokens", totalTokens(results),
		"duration", time.Since(start).String(),
	)
	return results, nil
}

func classify(err error) error {
	if ai.IsPayloadTooLarge(err) {
		return wrapError(ErrContentTooLarge, MsgContentTooLarge, err)
	}
	return wrapError(ErrConversionFailed, MsgConversionFailed, err)
}

func normalize(r ai.Result, doc Document) Result {
	res := Result{
		Name:     r.Name,
		MIMEType: r.MIMEType,
		Format:   r.Format,
		Tokens:   r.Tokens,
		Data:     r.Data,
	}
	if res.Name == "" {
		res.Name = doc.Name
	}
	if res.MIMEType == "" {
		res.MIMEType = ai.MarkdownMIMEType
	}
	if res.Format == "" {
		res.Format = ai.MarkdownFormat
	}
	if res.Tokens < 0 {
		res.Tokens = 0
	}
	return res
}

func totalTokens(results []Result) int {
	n := 0
	for _, r := range results {
		n += r.Tokens
	}
	return n
}
