package expr

import (
	"fmt"
	"strings"
	"unicode"
)

// translate tokenizes a formula and rebuilds it as Lua source. Tokens are
// joined with spaces so that "--" can never open a Lua comment, and "**" is
// rewritten to Lua's "^".
func translate(text, variable string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty expression", ErrParse)
	}

	var tokens []string
	runes := []rune(text)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++

		case unicode.IsDigit(r) || r == '.':
			j := scanNumber(runes, i)
			if j == i {
				return "", fmt.Errorf("%w: unexpected %q at %d", ErrParse, r, i)
			}
			tokens = append(tokens, string(runes[i:j]))
			i = j

		case r == '_' || unicode.IsLetter(r):
			j := i
			for j < len(runes) && (runes[j] == '_' || unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j])) {
				j++
			}
			ident := string(runes[i:j])
			if !allowed(ident, variable) {
				return "", fmt.Errorf("%w: unknown symbol %q (expected %s)", ErrParse, ident, variable)
			}
			tokens = append(tokens, ident)
			i = j

		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			tokens = append(tokens, "^")
			i += 2

		case strings.ContainsRune("+-*/^(),", r):
			tokens = append(tokens, string(r))
			i++

		default:
			return "", fmt.Errorf("%w: unexpected %q at %d", ErrParse, r, i)
		}
	}
	return strings.Join(tokens, " "), nil
}

// scanNumber returns the end index of the numeric literal starting at i,
// or i if there is none. Accepts 12, 1.5, .5, 3., 1e3, 2.5E-2.
func scanNumber(runes []rune, i int) int {
	j := i
	digits := 0
	for j < len(runes) && unicode.IsDigit(runes[j]) {
		j++
		digits++
	}
	if j < len(runes) && runes[j] == '.' {
		j++
		for j < len(runes) && unicode.IsDigit(runes[j]) {
			j++
			digits++
		}
	}
	if digits == 0 {
		return i
	}
	if j < len(runes) && (runes[j] == 'e' || runes[j] == 'E') {
		k := j + 1
		if k < len(runes) && (runes[k] == '+' || runes[k] == '-') {
			k++
		}
		start := k
		for k < len(runes) && unicode.IsDigit(runes[k]) {
			k++
		}
		if k > start {
			j = k
		}
	}
	return j
}
