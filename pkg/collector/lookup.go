package collector

import (
	"context"
	stderrors "errors"
	"regexp"
	"strings"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/julicq/is-deprecated-or-not/pkg/deps"
	"github.com/julicq/is-deprecated-or-not/pkg/errors"
	"github.com/julicq/is-deprecated-or-not/pkg/integrations"
	"github.com/julicq/is-deprecated-or-not/pkg/kb"
)

// lookupFunc inspects one package. ok is false when the package is not
// deprecated.
type lookupFunc func(ctx context.Context, name string) (rec kb.Record, ok bool, err error)

// lookupAll runs fn over names with at most limit calls in flight.
// Unknown packages are skipped. The source fails only when the context
// ends or every lookup fails.
func lookupAll(ctx context.Context, source string, names []string, limit int, fn lookupFunc) (map[string]kb.Record, error) {
	var (
		mu       sync.Mutex
		records  = make(map[string]kb.Record)
		failures int
		firstErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for _, name := range names {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			rec, ok, err := fn(gctx, name)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil && stderrors.Is(err, integrations.ErrNotFound):
			case err != nil:
				failures++
				if firstErr == nil {
					firstErr = err
				}
			case ok:
				records[deps.NormalizeName(name)] = rec
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(names) > 0 && failures == len(names) {
		return nil, errors.Wrap(errors.ErrCodeNetwork, firstErr, "%s: all %d lookups failed", source, failures)
	}
	return records, nil
}

var (
	deprecationRE = regexp.MustCompile(`(?i)\b(deprecated|no longer (?:maintained|supported|developed)|unmaintained|abandoned|obsolete|end[- ]of[- ]life)\b`)
	alternativeRE = regexp.MustCompile("(?i)\\b(?:use|switch to|replaced by|superseded by|migrate to|moved to|renamed to)\\s+[`'\"]?([A-Za-z0-9][A-Za-z0-9._-]*[A-Za-z0-9])[`'\"]?")
)

var notPackages = map[string]bool{
	"the": true, "a": true, "an": true, "this": true, "it": true, "that": true,
	"of": true, "in": true, "at": true, "your": true, "our": true, "its": true,
}

// mentionsDeprecation reports whether text announces that a package is
// deprecated or unmaintained.
func mentionsDeprecation(text string) bool {
	return deprecationRE.MatchString(text)
}

// suggestedAlternatives extracts package names from phrases such as
// "use httpx instead" or "superseded by pycryptodome".
func suggestedAlternatives(self, text, reason string) []kb.Alternative {
	self = deps.NormalizeName(self)
	names := lo.FilterMap(alternativeRE.FindAllStringSubmatch(text, -1), func(m []string, _ int) (string, bool) {
		n := strings.TrimRight(m[1], ".")
		key := deps.NormalizeName(n)
		return n, key != self && !notPackages[key]
	})
	names = lo.UniqBy(names, deps.NormalizeName)
	return lo.Map(names, func(n string, _ int) kb.Alternative {
		return kb.Alternative{Name: n, Reason: reason}
	})
}
