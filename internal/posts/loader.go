package posts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	_ "time/tzdata"

	kerrors "github.com/PolarWolf314/musings/internal/errors"
)

// DefaultTimezone is the civil time zone posts are authored in.
const DefaultTimezone = "Asia/Kolkata"

// Loader reads markdown posts with YAML front matter.
type Loader struct {
	// Location interprets dates written without an offset.
	Location *time.Location
}

// NewLoader returns a Loader for the named IANA time zone.
func NewLoader(timezone string) (*Loader, error) {
	if timezone == "" {
		timezone = DefaultTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", kerrors.ErrInvalidTimezone, timezone, err)
	}
	return &Loader{Location: loc}, nil
}

// LoadFile reads one post. The id comes from front matter, or from the file
// name when absent.
func (l *Loader) LoadFile(path string) (*Post, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrPostNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrSourceUnreadable, path, err)
	}
	return l.Parse(path, content)
}

// Parse builds a Post from file content. path is used for the fallback id
// and error messages only.
func (l *Loader) Parse(path string, content []byte) (*Post, error) {
	header, body, err := splitFrontMatter(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fm, err := parseFrontMatter(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	id := strings.TrimSpace(fm.ID)
	if id == "" {
		id = Slugify(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	}
	if err := ValidateID(id); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	rawDate := fm.Date
	if rawDate == "" {
		rawDate = fm.TS
	}
	ts, err := ParseTimestamp(rawDate, l.location())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	privacy, err := ParsePrivacy(fm.Privacy)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return &Post{
		ID:         id,
		Timestamp:  ts,
		Privacy:    privacy,
		Body:       body,
		Tags:       fm.Tags,
		Pinned:     fm.Pinned,
		SourcePath: path,
	}, nil
}

// LoadDir reads every *.md file directly inside dir, in file name order.
func (l *Loader) LoadDir(dir string) ([]*Post, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrSourceUnreadable, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", kerrors.ErrSourceUnreadable, dir)
	}

	paths, err := ListPostFiles(dir)
	if err != nil {
		return nil, err
	}

	posts := make([]*Post, 0, len(paths))
	for _, path := range paths {
		post, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// ListPostFiles returns the markdown files directly inside dir, sorted.
func ListPostFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", kerrors.ErrSourceUnreadable, dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// ResolvePostPath finds a post given as a path relative to the working
// directory or to srcDir.
func ResolvePostPath(arg, srcDir string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	if srcDir != "" && !filepath.IsAbs(arg) {
		candidate := filepath.Join(srcDir, arg)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", kerrors.ErrPostNotFound, arg)
}

func (l *Loader) location() *time.Location {
	if l.Location == nil {
		return time.UTC
	}
	return l.Location
}
