package python

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
)

var installRequiresRE = regexp.MustCompile(`install_requires\s*=\s*\[`)

// SetupPy extracts the install_requires list literal from setup.py. The
// script is never evaluated: requirements built from variables or
// function calls are invisible to this parser.
type SetupPy struct{}

func (s *SetupPy) Kind() deps.ManifestKind   { return deps.KindSetupPy }
func (s *SetupPy) Supports(name string) bool { return name == "setup.py" }

func (s *SetupPy) Parse(path string, opts deps.Options) ([]deps.DependencyRecord, error) {
	opts = opts.WithDefaults()
	data, err := readManifest(path)
	if err != nil {
		return nil, err
	}

	result := []deps.DependencyRecord{}
	loc := installRequiresRE.FindIndex(data)
	if loc == nil {
		opts.Logger("setup.py: no install_requires list found")
		return result, nil
	}

	for i, lit := range listLiterals(string(data[loc[1]:])) {
		result = appendRequirement(result, lit, opts, fmt.Sprintf("setup.py install_requires[%d]", i))
	}
	return result, nil
}

// listLiterals returns the string literals of a Python list body, starting
// just after the opening bracket and stopping at the matching close.
// Comments are skipped and quotes are honored, so brackets and '#' inside
// strings do not end the scan.
func listLiterals(src string) []string {
	var (
		out   []string
		depth = 1
	)
	for i := 0; i < len(src); i++ {
		switch c := src[i]; c {
		case '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case '[', '(', '{':
			depth++
		case ']', ')', '}':
			depth--
			if depth == 0 {
				return out
			}
		case '"', '\'':
			lit, end, ok := readString(src, i)
			if !ok {
				return out
			}
			if depth == 1 {
				out = append(out, lit)
			}
			i = end
		}
	}
	return out
}

// readString reads the literal whose opening quote is at src[start] and
// returns its contents and the index of the closing quote. Triple quoted
// strings are supported.
func readString(src string, start int) (string, int, bool) {
	q := src[start : start+1]
	if strings.HasPrefix(src[start:], q+q+q) {
		q = q + q + q
	}
	var b strings.Builder
	for i := start + len(q); i < len(src); i++ {
		if src[i] == '\\' && i+1 < len(src) {
			b.WriteByte(src[i+1])
			i++
			continue
		}
		if strings.HasPrefix(src[i:], q) {
			return b.String(), i + len(q) - 1, true
		}
		if len(q) == 1 && src[i] == '\n' {
			return "", i, false
		}
		b.WriteByte(src[i])
	}
	return "", len(src), false
}
