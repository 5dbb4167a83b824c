package posts

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	kerrors "github.com/PolarWolf314/musings/internal/errors"
)

// Privacy is the author's choice of who may read a post.
type Privacy string

const (
	PrivacyPublic  Privacy = "public"
	PrivacyPrivate Privacy = "private"
)

// ParsePrivacy accepts "public" or "private" in any case. An empty value
// means private so a forgotten field never publishes plaintext.
func ParsePrivacy(s string) (Privacy, error) {
	switch Privacy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PrivacyPrivate:
		return PrivacyPrivate, nil
	case PrivacyPublic:
		return PrivacyPublic, nil
	default:
		return "", fmt.Errorf("%w: got %q", kerrors.ErrInvalidPrivacy, s)
	}
}

// Post is one authored entry, ready for the build.
type Post struct {
	ID         string
	Timestamp  time.Time // UTC
	Privacy    Privacy
	Body       string
	Tags       []string
	Pinned     bool
	SourcePath string
}

// IsPrivate reports whether the post must be encrypted.
func (p *Post) IsPrivate() bool {
	return p.Privacy != PrivacyPublic
}

var (
	idPattern     = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonSlugChars  = regexp.MustCompile(`[^a-z0-9-]+`)
	dashRun       = regexp.MustCompile(`-+`)
)

// ValidateID checks that id is usable as a file name and URL segment.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is empty", kerrors.ErrInvalidPostID)
	}
	if !idPattern.MatchString(id) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q is not path-safe", kerrors.ErrInvalidPostID, id)
	}
	return nil
}

// Slugify derives an id from free text such as a file name.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = dashRun.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "post"
	}
	return s
}
