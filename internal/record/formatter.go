// Package record formats and writes the training and evaluation records
// consumed by the move-method model.
package record

import (
	"strconv"
	"strings"
)

// Padding fills name slots that have no token.
const Padding = "*"

// Formatter renders fixed-width name lines and distance lines.
type Formatter struct {
	MethodNameLength  int
	PackageNameLength int
}

// Width returns the number of tokens in every names line.
func (f Formatter) Width() int {
	return f.MethodNameLength + 2*f.PackageNameLength
}

// Names renders the method name tokens followed by the tokens of pkgX and
// pkgY. Short method names are left-padded and long ones keep their first
// tokens; short packages are left-padded and long ones keep their trailing
// components.
func (f Formatter) Names(method, pkgX, pkgY string) string {
	tokens := make([]string, 0, f.Width())

	parts := Subtokens(method)
	if len(parts) > f.MethodNameLength {
		parts = parts[:f.MethodNameLength]
	}
	tokens = appendPadded(tokens, parts, f.MethodNameLength)

	for _, pkg := range []string{pkgX, pkgY} {
		parts := PackageTokens(pkg)
		if len(parts) > f.PackageNameLength {
			parts = parts[len(parts)-f.PackageNameLength:]
		}
		tokens = appendPadded(tokens, parts, f.PackageNameLength)
	}
	return strings.Join(tokens, " ")
}

func appendPadded(tokens, parts []string, width int) []string {
	for i := len(parts); i < width; i++ {
		tokens = append(tokens, Padding)
	}
	return append(tokens, parts...)
}

// Distances renders "distanceX distanceY label".
func Distances(x, y float64, label int) string {
	return FormatDistance(x) + " " + FormatDistance(y) + " " + strconv.Itoa(label)
}

// FormatDistance renders d in its shortest decimal form with at least one
// fractional digit: 1.0, 0.5, 0.6666666666666667.
func FormatDistance(d float64) string {
	s := strconv.FormatFloat(d, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
