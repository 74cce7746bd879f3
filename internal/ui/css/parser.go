// Package css parses the small stylesheet dialect used for editor panels: rules with
// .class or #id selectors (comma separated lists allowed) and "key: value;" bodies.
// There are no combinators, no @rules and no cascade beyond source order.
package css

import (
	"fmt"
	"strings"
)

// Rule is one selector with its raw property values.
type Rule struct {
	Selector string
	Props    map[string]string
}

// Stylesheet is a list of rules. Later rules override earlier ones.
type Stylesheet struct {
	Rules []Rule
}

// Parse reads a stylesheet. Blocks whose selector is not a class or id are skipped; an
// unterminated block is an error.
func Parse(content string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	s := stripComments(content)
	for {
		open := strings.IndexByte(s, '{')
		if open == -1 {
			if rest := strings.TrimSpace(s); rest != "" {
				return nil, fmt.Errorf("css: trailing text %q", rest)
			}
			return sheet, nil
		}
		end := matchingBrace(s, open)
		if end == -1 {
			return nil, fmt.Errorf("css: unterminated block after %q", strings.TrimSpace(s[:open]))
		}
		props := parseDeclarations(s[open+1 : end])
		for _, sel := range strings.Split(s[:open], ",") {
			sel = strings.TrimSpace(sel)
			if len(sel) < 2 || (sel[0] != '.' && sel[0] != '#') {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{Selector: sel, Props: props})
		}
		s = s[end+1:]
	}
}

func stripComments(s string) string {
	var b strings.Builder
	for {
		i := strings.Index(s, "/*")
		if i == -1 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		j := strings.Index(s[i+2:], "*/")
		if j == -1 {
			return b.String()
		}
		s = s[i+2+j+2:]
	}
}

func matchingBrace(s string, open int) int {
	depth := 1
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func parseDeclarations(body string) map[string]string {
	props := make(map[string]string)
	for _, part := range strings.Split(body, ";") {
		k, v, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		if k = strings.TrimSpace(k); k != "" {
			props[strings.ToLower(k)] = strings.TrimSpace(v)
		}
	}
	return props
}

// Match merges the properties of every rule that selects class or id, in source order.
func (s *Stylesheet) Match(class, id string) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	for _, r := range s.Rules {
		name := r.Selector[1:]
		switch {
		case r.Selector[0] == '.' && class != "" && name == class,
			r.Selector[0] == '#' && id != "" && name == id:
			for k, v := range r.Props {
				merged[k] = v
			}
		}
	}
	return merged
}

// Style resolves the style for a node with the given class and id.
func (s *Stylesheet) Style(class, id string) Style {
	return Resolve(s.Match(class, id))
}
