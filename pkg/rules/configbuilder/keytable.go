package configbuilder

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/phpshift/pkg/levenshtein"
)

// suggestDistance is the largest edit distance Suggest accepts.
const suggestDistance = 2

var (
	extensionKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	classNamePattern    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\\[A-Za-z_][A-Za-z0-9_]*)+$`)
)

// defaultEntries maps the extension keys with generated config builders to their classes.
var defaultEntries = map[string]string{
	"security":  `Symfony\Config\SecurityConfig`,
	"framework": `Symfony\Config\FrameworkConfig`,
	"monolog":   `Symfony\Config\MonologConfig`,
	"twig":      `Symfony\Config\TwigConfig`,
	"doctrine":  `Symfony\Config\DoctrineConfig`,
}

// KeyTable maps extension keys to fully-qualified builder class names.
// A KeyTable never changes after construction; the zero value is empty.
type KeyTable struct {
	entries map[string]string
}

// DefaultKeyTable returns the built-in table.
func DefaultKeyTable() KeyTable {
	return KeyTable{entries: defaultEntries}
}

// NewKeyTable validates entries and returns a table holding a copy of them.
// Keys must be lowercase identifiers; values must be namespaced class names,
// optionally with a leading backslash.
func NewKeyTable(entries map[string]string) (KeyTable, error) {
	return KeyTable{}.With(entries)
}

// With returns a new table holding t's entries overlaid with extra.
func (t KeyTable) With(extra map[string]string) (KeyTable, error) {
	merged := maps.Clone(t.entries)
	if merged == nil {
		merged = make(map[string]string, len(extra))
	}

	for _, key := range slices.Sorted(maps.Keys(extra)) {
		className := strings.TrimPrefix(extra[key], `\`)

		if !extensionKeyPattern.MatchString(key) {
			return KeyTable{}, fmt.Errorf("%w: key %q is not a lowercase identifier", ErrInvalidKeyTable, key)
		}

		if !classNamePattern.MatchString(className) {
			return KeyTable{}, fmt.Errorf("%w: %q maps to %q, which is not a fully-qualified class name",
				ErrInvalidKeyTable, key, extra[key])
		}

		merged[key] = className
	}

	return KeyTable{entries: merged}, nil
}

// Lookup returns the builder class for an extension key.
func (t KeyTable) Lookup(key string) (string, bool) {
	className, ok := t.entries[key]

	return className, ok
}

// Keys returns the extension keys in sorted order.
func (t KeyTable) Keys() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// Len returns the number of entries.
func (t KeyTable) Len() int {
	return len(t.entries)
}

// Suggest returns the known key closest to key, for misspelled extension keys.
func (t KeyTable) Suggest(key string) (string, bool) {
	return levenshtein.Closest(key, t.Keys(), suggestDistance)
}
