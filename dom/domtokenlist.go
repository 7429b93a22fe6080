package dom

import "strings"

const asciiWhitespace = " \t\n\r\f"

// DOMTokenList is a live view of a space-separated attribute such as class.
// Every read reparses the attribute, so it never goes stale.
type DOMTokenList struct {
	owner *Element
	attr  string
}

func checkToken(token string) error {
	switch {
	case token == "":
		return domError(SyntaxError, "empty token")
	case strings.ContainsAny(token, asciiWhitespace):
		return domError(InvalidCharacterError, "token %q contains whitespace", token)
	}
	return nil
}

func checkTokens(tokens []string) error {
	for _, t := range tokens {
		if err := checkToken(t); err != nil {
			return err
		}
	}
	return nil
}

// Values returns the distinct tokens in attribute order.
func (l *DOMTokenList) Values() []string {
	var out []string
	for _, t := range strings.Fields(l.owner.GetAttribute(l.attr)) {
		if indexOf(out, t) < 0 {
			out = append(out, t)
		}
	}
	return out
}

// Length returns the number of distinct tokens.
func (l *DOMTokenList) Length() int { return len(l.Values()) }

// Contains reports whether token is present. Invalid tokens are never present.
func (l *DOMTokenList) Contains(token string) bool {
	return checkToken(token) == nil && indexOf(l.Values(), token) >= 0
}

// Add appends the tokens that are missing.
func (l *DOMTokenList) Add(tokens ...string) error {
	if err := checkTokens(tokens); err != nil {
		return err
	}
	values := l.Values()
	for _, t := range tokens {
		if indexOf(values, t) < 0 {
			values = append(values, t)
		}
	}
	l.store(values)
	return nil
}

// Remove drops the given tokens.
func (l *DOMTokenList) Remove(tokens ...string) error {
	if err := checkTokens(tokens); err != nil {
		return err
	}
	var kept []string
	for _, t := range l.Values() {
		if indexOf(tokens, t) < 0 {
			kept = append(kept, t)
		}
	}
	l.store(kept)
	return nil
}

// Toggle flips token and reports whether it is present afterwards.
func (l *DOMTokenList) Toggle(token string) (bool, error) {
	if l.Contains(token) {
		return false, l.Remove(token)
	}
	return true, l.Add(token)
}

// store serializes values. An absent attribute is not created just to hold
// an empty list.
func (l *DOMTokenList) store(values []string) {
	if len(values) == 0 && !l.owner.HasAttribute(l.attr) {
		return
	}
	l.owner.SetAttribute(l.attr, strings.Join(values, " "))
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
