package python

import (
	"bufio"
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
)

// Requirements parses requirements.txt style files (one requirement per
// line). Option lines (-r, -e, --index-url), URL and VCS references are
// ignored.
type Requirements struct{}

func (r *Requirements) Kind() deps.ManifestKind { return deps.KindRequirements }

func (r *Requirements) Supports(name string) bool {
	kind, ok := deps.DetectKind(name)
	return ok && kind == deps.KindRequirements
}

func (r *Requirements) Parse(path string, opts deps.Options) ([]deps.DependencyRecord, error) {
	opts = opts.WithDefaults()
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	result := []deps.DependencyRecord{}

	// Lines ending in a backslash continue on the next line, as in
	// pip-compile output with --hash options.
	var (
		pending string
		start   int
	)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; scanner.Scan(); n++ {
		line := stripComment(scanner.Text())
		if pending == "" {
			start = n
		}
		if head, ok := strings.CutSuffix(line, `\`); ok {
			pending += head + " "
			continue
		}
		result = appendLine(result, pending+line, opts, fmt.Sprintf("%s:%d", name, start))
		pending = ""
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "scan %s", name)
	}
	if pending != "" {
		result = appendLine(result, pending, opts, fmt.Sprintf("%s:%d", name, start))
	}
	return result, nil
}

func appendLine(result []deps.DependencyRecord, line string, opts deps.Options, where string) []deps.DependencyRecord {
	line = cutOptions(strings.TrimSpace(line))
	if line == "" || line[0] == '-' {
		return result
	}
	if strings.Contains(line, "://") || strings.HasPrefix(line, "git+") {
		return result
	}
	return appendRequirement(result, line, opts, where)
}

// cutOptions drops per-requirement options (--hash, --config-settings)
// that follow the requirement itself.
func cutOptions(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if i > 0 && strings.HasPrefix(f, "-") {
			return strings.Join(fields[:i], " ")
		}
	}
	return line
}

// stripComment trims the line and removes a full-line or inline comment.
// Inline comments must be preceded by whitespace, so "pkg#egg" survives.
func stripComment(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "#") {
		return ""
	}
	for i := 1; i < len(line); i++ {
		if line[i] == '#' && (line[i-1] == ' ' || line[i-1] == '\t') {
			return strings.TrimSpace(line[:i])
		}
	}
	return line
}
