package ai

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	orchcfg "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	wf "github.com/JaimeStill/go-agents-orchestration/pkg/workflows"
)

// Completion is the reply of a single model call.
type Completion struct {
	Content string
	Tokens  int
}

// transcriber is the minimal model surface a transcription backend needs.
type transcriber interface {
	Text(ctx context.Context, prompt string) (Completion, error)
	Vision(ctx context.Context, prompt string, images []string) (Completion, error)
}

// textTypes are sent to the model inline as text.
var textTypes = map[string]bool{
	"text/html":       true,
	"text/csv":        true,
	"text/xml":        true,
	"application/xml": true,
	"image/svg+xml":   true,
}

// imageTypes are sent to the model as a single image.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// transcribeBinding converts documents by prompting an LLM.
// PDF pages are rendered and transcribed in parallel, then joined in page order.
type transcribeBinding struct {
	name     string
	model    transcriber
	renderer pageRenderer
	vision   bool
	logger   *slog.Logger
}

func (b *transcribeBinding) ToMarkdown(ctx context.Context, docs []Document) ([]Result, error) {
	results := make([]Result, 0, len(docs))
	for _, doc := range docs {
		res, err := b.convert(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.Name, err)
		}
		results = append(results, res)
	}
	return results, nil
}

func (b *transcribeBinding) convert(ctx context.Context, doc Document) (Result, error) {
	var (
		c   Completion
		err error
	)

	switch {
	case textTypes[doc.MIMEType]:
		c, err = b.model.Text(ctx, systemPrompt+"\n\n"+textPrompt(doc))
		err = vendorError(err)
	case imageTypes[doc.MIMEType] && b.vision:
		c, err = b.model.Vision(ctx, systemPrompt+"\n\n"+imagePrompt(doc), []string{DataURI(doc.MIMEType, doc.Blob)})
		err = vendorError(err)
	case doc.MIMEType == pdfMIMEType && b.vision && b.renderer != nil:
		c, err = b.transcribePDF(ctx, doc)
	default:
		return Result{}, fmt.Errorf("%w: %s backend cannot read %s", ErrUnsupportedInput, b.name, doc.MIMEType)
	}
	if err != nil {
		return Result{}, err
	}

	return Result{
		Name:     doc.Name,
		MIMEType: MarkdownMIMEType,
		Format:   MarkdownFormat,
		Tokens:   c.Tokens,
		Data:     strings.TrimSpace(c.Content),
	}, nil
}

type pageCompletion struct {
	page int
	Completion
}

func (b *transcribeBinding) transcribePDF(ctx context.Context, doc Document) (Completion, error) {
	pages, err := b.renderer.Render(ctx, doc)
	if err != nil {
		return Completion{}, err
	}
	if len(pages) == 0 {
		return Completion{}, ErrEmptyResponse
	}

	processor := func(ctx context.Context, p PageImage) (pageCompletion, error) {
		prompt := systemPrompt + "\n\n" + pagePrompt(doc, p.Page, len(pages))
		c, err := b.model.Vision(ctx, prompt, []string{p.DataURI})
		if err != nil {
			return pageCompletion{}, fmt.Errorf("page %d: %w", p.Page, vendorError(err))
		}
		return pageCompletion{page: p.Page, Completion: c}, nil
	}

	result, err := wf.ProcessParallel(ctx, transcribeParallelConfig(), pages, processor, nil)
	if err != nil {
		return Completion{}, fmt.Errorf("parallel transcription failed: %w", err)
	}
	if len(result.Results) != len(pages) {
		return Completion{}, fmt.Errorf("transcribed %d of %d pages", len(result.Results), len(pages))
	}

	sorted := append([]pageCompletion(nil), result.Results...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].page < sorted[j].page })

	var (
		sb     strings.Builder
		tokens int
	)
	for i, pc := range sorted {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(strings.TrimSpace(pc.Content))
		tokens += pc.Tokens
	}

	b.logger.Debug("pdf transcribed", "name", doc.Name, "pages", len(pages), "tokens", tokens)
	return Completion{Content: sb.String(), Tokens: tokens}, nil
}

func transcribeParallelConfig() orchcfg.ParallelConfig {
	cfg := orchcfg.DefaultParallelConfig()
	cfg.Observer = "noop"
	return cfg
}
