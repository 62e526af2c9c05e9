// Package keywords loads the keyword list file consumed by the lexer: a
// whitespace-separated list of identifiers that reclassifies matching
// Nonterm tokens as Keyword.
//
// The lexer only depends on the narrow Has interface here, not on a
// concrete file format, so alternate keyword sources can be plugged in.
package keywords

import (
	"bufio"
	"io"
	"strings"
)

// Set reports membership of a preloaded keyword list.
type Set interface {
	Has(word string) bool
}

// stringSet is the default Set implementation.
type stringSet map[string]struct{}

func (s stringSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Empty is a Set with no members, usable when no keyword file is supplied.
var Empty Set = stringSet{}

// Load reads whitespace-separated identifiers from r and returns the
// resulting Set.
func Load(r io.Reader) (Set, error) {
	s := make(stringSet)
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		s[word] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

// Of builds a Set directly from a slice of words, useful for tests and for
// callers that already have the keyword list in memory.
func Of(words ...string) Set {
	s := make(stringSet, len(words))
	for _, w := range words {
		s[w] = struct{}{}
	}
	return s
}
