// Package parser splits article files into YAML frontmatter and body.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// SlugPattern is the accepted form of an article slug.
var SlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ErrNoFrontmatter is returned when a file does not start with a --- block.
var ErrNoFrontmatter = errors.New("missing frontmatter")

// Meta is the typed frontmatter of an article file.
type Meta struct {
	Module      int    `yaml:"module"`
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	ReadTime    int    `yaml:"read_time"`
}

// Validate checks the frontmatter fields.
func (m *Meta) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Slug, validation.Required, validation.Match(SlugPattern)),
		validation.Field(&m.Title, validation.Required),
		validation.Field(&m.Module, validation.Min(0)),
		validation.Field(&m.ReadTime, validation.Min(0)),
	)
}

// Result holds the output of parsing an article file.
type Result struct {
	Meta Meta
	Body string
}

// Parse extracts and validates frontmatter and returns the body verbatim.
// When the frontmatter has no title, the first H1 heading of the body is used.
func Parse(data []byte) (*Result, error) {
	block, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}

	var meta Meta
	if err := yaml.Unmarshal(block, &meta); err != nil {
		return nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if meta.Title == "" {
		meta.Title = deriveTitle(body)
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}

	return &Result{Meta: meta, Body: body}, nil
}

// splitFrontmatter separates the YAML block between leading --- delimiters
// from the body.
func splitFrontmatter(data []byte) ([]byte, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, "", ErrNoFrontmatter
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return nil, "", fmt.Errorf("unterminated frontmatter")
	}

	block := rest[:idx]
	after := rest[idx+1+len(delim):]
	// Drop the remainder of the closing delimiter line.
	if nl := bytes.IndexByte(after, '\n'); nl >= 0 {
		after = after[nl+1:]
	} else {
		after = nil
	}
	body := strings.TrimLeft(string(after), "\n\r")

	return block, body, nil
}

// deriveTitle returns the first H1 heading of body, or "".
func deriveTitle(body string) string {
	inFence := false
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			continue
		}
		if !inFence && strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
