package phpast

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"
)

// reservedVariable can never be declared as a parameter name.
const reservedVariable = "this"

// fallbackVariable is used when a type name yields no usable identifier.
const fallbackVariable = "config"

// UnderscoreToCamelCase converts a snake_case configuration key to the
// lowerCamel builder method name: "access_control" becomes "accessControl".
func UnderscoreToCamelCase(key string) string {
	var buf strings.Builder

	for part := range strings.SplitSeq(key, "_") {
		if part == "" {
			continue
		}

		buf.WriteString(toCamel(part))
	}

	return toLowerCamel(buf.String())
}

// ShortName returns the unqualified part of a class name.
func ShortName(fqcn string) string {
	if idx := strings.LastIndex(fqcn, `\`); idx >= 0 {
		return fqcn[idx+1:]
	}

	return fqcn
}

// VariableName derives a parameter name from a class name. The result is the
// lowerCamel short name, suffixed with 2, 3, ... until it collides with none of
// taken. "this" is always treated as taken.
func VariableName(typeName string, taken ...string) string {
	base := toLowerCamel(ShortName(strings.TrimPrefix(typeName, `\`)))
	if !isIdentifier(base) {
		base = fallbackVariable
	}

	isTaken := func(name string) bool {
		return name == reservedVariable || slices.Contains(taken, name)
	}

	if !isTaken(base) {
		return base
	}

	for suffix := 2; ; suffix++ {
		candidate := base + strconv.Itoa(suffix)
		if !isTaken(candidate) {
			return candidate
		}
	}
}

func toLowerCamel(s string) string {
	if s == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size == 0 {
		return s
	}

	return strings.ToLower(string(r)) + s[size:]
}

func toCamel(s string) string {
	if s == "" {
		return ""
	}

	r, size := utf8.DecodeRuneInString(s)

	return strings.ToUpper(string(r)) + s[size:]
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}

	for idx, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= utf8.RuneSelf:
		case idx > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
