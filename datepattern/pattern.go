// Package datepattern compiles strftime-style file name patterns.
// A compiled Pattern resolves a timestamp into a concrete file path, and
// recognizes file names it could have produced in the past. Only fixed-width,
// zero-padded numeric directives are accepted: sorting the produced names
// lexicographically must order them chronologically, because retention
// depends on that to find the oldest files.
package datepattern

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// Custom errors returned by this package.
var (
	ErrEmptyPattern         = errors.New("empty file name pattern")
	ErrUnsupportedDirective = errors.New("unsupported strftime directive")
)

// directives maps each supported strftime directive to the regular expression
// matching its output. Everything here is zero padded to a fixed width.
var directives = map[byte]string{ //nolint:gochecknoglobals
	'Y': `\d{4}`, // year with century.
	'y': `\d{2}`, // year without century.
	'm': `\d{2}`, // month.
	'd': `\d{2}`, // day of month.
	'H': `\d{2}`, // hour, 24-hour clock.
	'I': `\d{2}`, // hour, 12-hour clock.
	'M': `\d{2}`, // minute.
	'S': `\d{2}`, // second.
	'j': `\d{3}`, // day of year.
	'U': `\d{2}`, // week of year, Sunday first.
	'W': `\d{2}`, // week of year, Monday first.
}

// Pattern is a compiled file name pattern. Obtain one from New().
type Pattern struct {
	raw     string
	format  *strftime.Strftime
	matcher *regexp.Regexp // matches base names the pattern produces.
}

// New validates and compiles a strftime-style path pattern.
// Directives that do not produce fixed-width numbers (%a, %b, %p, ...) are
// rejected: file names built from them do not sort chronologically.
func New(pattern string) (*Pattern, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	if err := validate(pattern); err != nil {
		return nil, err
	}

	format, err := strftime.New(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedDirective, err)
	}

	matcher, err := compileMatcher(filepath.Base(pattern))
	if err != nil {
		return nil, err
	}

	return &Pattern{raw: pattern, format: format, matcher: matcher}, nil
}

// validate makes sure every % directive in the pattern is one we support.
func validate(pattern string) error {
	for idx := 0; idx < len(pattern); idx++ {
		if pattern[idx] != '%' {
			continue
		}

		if idx == len(pattern)-1 {
			return fmt.Errorf("%w: trailing %%", ErrUnsupportedDirective)
		}

		next := pattern[idx+1]
		if _, ok := directives[next]; !ok && next != '%' {
			return fmt.Errorf("%w: %%%c", ErrUnsupportedDirective, next)
		}

		idx++ // skip the directive character.
	}

	return nil
}

// compileMatcher turns the base name of the pattern into an anchored regular
// expression. Literal runs are quoted; each directive becomes the expression
// from the directive table.
func compileMatcher(base string) (*regexp.Regexp, error) {
	var expr strings.Builder

	expr.WriteString("^")

	start := 0

	for idx := 0; idx < len(base); idx++ {
		if base[idx] != '%' || idx == len(base)-1 {
			continue
		}

		expr.WriteString(regexp.QuoteMeta(base[start:idx]))

		if next := base[idx+1]; next == '%' {
			expr.WriteString("%")
		} else {
			expr.WriteString(directives[next]) // validate() ran already.
		}

		idx++
		start = idx + 1
	}

	expr.WriteString(regexp.QuoteMeta(base[start:]))
	expr.WriteString("$")

	matcher, err := regexp.Compile(expr.String())
	if err != nil {
		return nil, fmt.Errorf("compiling file name matcher: %w", err)
	}

	return matcher, nil
}

// Resolve returns the concrete file path for the given time.
// Pure and deterministic; a pattern without directives always
// resolves to the same path.
func (p *Pattern) Resolve(now time.Time) string {
	return p.format.FormatString(now)
}

// MatchBase reports whether a base file name is one this pattern produces.
func (p *Pattern) MatchBase(name string) bool {
	return p.matcher.MatchString(name)
}

// String returns the raw pattern.
func (p *Pattern) String() string {
	return p.raw
}

// LockPath returns a stable lock file path derived from the pattern string,
// so independent processes sharing a pattern derive the same lock, while
// different patterns in the same directory get different locks. When the
// directory part of the pattern contains directives the lock lives in the
// temp directory instead, because the real directory changes over time.
func (p *Pattern) LockPath() string {
	dir := filepath.Dir(p.raw)
	if strings.Contains(dir, "%") {
		dir = os.TempDir()
	}

	name := strings.ReplaceAll(filepath.Base(p.raw), "%", "_")

	return filepath.Join(dir, "."+name+".lock")
}
