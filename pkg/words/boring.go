package words

import (
	"bufio"
	"io"
	"os"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

// Set is a set of lowercase words.
type Set map[string]struct{}

// NewSet returns a set of the given words, lowercased.
func NewSet(words ...string) Set {
	lower := cases.Lower(language.Und)
	s := make(Set, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			s[lower.String(w)] = struct{}{}
		}
	}
	return s
}

// Has reports whether w is in the set. A nil set is empty.
func (s Set) Has(w string) bool {
	_, ok := s[w]
	return ok
}

// Add inserts words into the set.
func (s Set) Add(words ...string) {
	for w := range NewSet(words...) {
		s[w] = struct{}{}
	}
}

// Sorted returns the words in alphabetical order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for w := range s {
		out = append(out, w)
	}
	slices.Sort(out)
	return out
}

// ReadSet reads whitespace separated words. Lines starting with # are
// comments.
func ReadSet(r io.Reader) (Set, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.Fields(line)...)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read boring words")
	}
	return NewSet(words...), nil
}

// ReadSetFile reads a boring words file.
func ReadSetFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "boring words file not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open boring words file %s", path)
	}
	defer f.Close()
	return ReadSet(f)
}

// English returns a copy of the built-in English stop word list.
func English() Set {
	s := make(Set, len(english))
	for w := range english {
		s[w] = struct{}{}
	}
	return s
}

var english = NewSet(strings.Fields(`
a about above after again against all am an and any are as at
be because been before being below between both but by
can could did do does doing down during each few for from further
had has have having he her here hers herself him himself his how
i if in into is it its itself just me more most my myself
no nor not now of off on once only or other our ours ourselves out over own
same she should so some such than that the their theirs them themselves then
there these they this those through to too under until up very
was we were what when where which while who whom why will with would
you your yours yourself yourselves
`)...)
