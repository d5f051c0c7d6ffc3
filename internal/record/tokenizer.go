package record

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// Subtokens splits a method name at camelCase, digit and underscore
// boundaries and lower-cases the parts. Digits and punctuation are dropped:
// "parseHTTPHeader2_value" -> [parse http header value].
func Subtokens(name string) []string {
	var tokens []string
	for _, part := range camelcase.Split(name) {
		if !isWord(part) {
			continue
		}
		tokens = append(tokens, strings.ToLower(part))
	}
	return tokens
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// PackageTokens splits a dotted package name into its components.
func PackageTokens(pkg string) []string {
	if pkg == "" {
		return nil
	}
	return strings.Split(pkg, ".")
}
