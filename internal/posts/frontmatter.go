package posts

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/musings/internal/errors"

	"gopkg.in/yaml.v3"
)

// frontMatter is the authoring schema between the leading --- lines.
type frontMatter struct {
	ID      string   `yaml:"id"`
	Date    string   `yaml:"date"`
	TS      string   `yaml:"ts"`
	Privacy string   `yaml:"privacy"`
	Tags    []string `yaml:"tags"`
	Pinned  bool     `yaml:"pinned"`
}

// splitFrontMatter separates the YAML header from the body. The header
// must open on the first line and close with a line holding only ---.
func splitFrontMatter(content []byte) (header []byte, body string, err error) {
	content = bytes.TrimPrefix(content, []byte("\ufeff"))
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	if !strings.HasPrefix(text, "---\n") {
		return nil, "", kerrors.ErrMissingFrontMatter
	}
	rest := text[len("---\n"):]

	var headerText string
	switch {
	case strings.HasPrefix(rest, "---\n") || rest == "---":
		headerText, rest = "", strings.TrimPrefix(strings.TrimPrefix(rest, "---"), "\n")
	default:
		end := strings.Index(rest, "\n---\n")
		if end < 0 {
			if !strings.HasSuffix(rest, "\n---") {
				return nil, "", fmt.Errorf("%w: closing --- not found", kerrors.ErrMissingFrontMatter)
			}
			headerText, rest = strings.TrimSuffix(rest, "\n---"), ""
		} else {
			headerText, rest = rest[:end], rest[end+len("\n---\n"):]
		}
	}

	return []byte(headerText), strings.TrimSpace(rest), nil
}

func parseFrontMatter(header []byte) (*frontMatter, error) {
	var fm frontMatter
	if len(bytes.TrimSpace(header)) == 0 {
		return &fm, nil
	}
	if err := yaml.Unmarshal(header, &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidFrontMatter, err)
	}
	return &fm, nil
}

// timestampLayouts are tried in order. Layouts without an offset are
// interpreted in the authoring time zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses an authored date and normalizes it to UTC. Values
// without an explicit offset are taken as civil time in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, kerrors.ErrMissingTimestamp
	}
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", kerrors.ErrInvalidTimestamp, raw)
}
