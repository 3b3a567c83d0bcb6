package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/JaimeStill/anytomarkdown/pkg/client"
)

var now = time.Now

// frontmatter is the YAML header written above saved Markdown.
type frontmatter struct {
	Source      string    `yaml:"source"`
	Name        string    `yaml:"name"`
	MIMEType    string    `yaml:"mimeType"`
	Tokens      int       `yaml:"tokens"`
	ConvertedAt time.Time `yaml:"converted_at"`
}

func renderMarkdown(fm frontmatter, body string) ([]byte, error) {
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimRight(body, "\n"))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// markdownName derives "<name>.md" from a result name, flattening path separators.
func markdownName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(base))
	if base == "" || base == "." || base == ".." {
		base = "document"
	}
	return base + ".md"
}

func writeMarkdown(dir, source string, r client.Result, at time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	data, err := renderMarkdown(frontmatter{
		Source:      source,
		Name:        r.Name,
		MIMEType:    r.MIMEType,
		Tokens:      r.Tokens,
		ConvertedAt: at.UTC(),
	}, r.Data)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, markdownName(r.Name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func printResults(w io.Writer, results []client.Result) error {
	for i, r := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "<!-- %s -->\n", r.Name)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(r.Data, "\n")); err != nil {
			return err
		}
	}
	return nil
}
