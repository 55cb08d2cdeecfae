package resolver

import "strings"

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdent(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// directives are the HCL template directive keywords.
var directives = []string{"if", "else", "endif", "for", "endfor"}

// isDirective reports whether the text after a %{ opens an HCL directive.
func isDirective(rest string) bool {
	rest = strings.TrimLeft(strings.TrimPrefix(rest, "~"), " \t")
	for _, d := range directives {
		if strings.HasPrefix(rest, d) && (len(rest) == len(d) || !isIdent(rest[len(d)])) {
			return true
		}
	}
	return false
}

// normalize rewrites the $name, $name(), $name.opt and $(expr) shorthands
// into HCL interpolations. Native ${...} sequences and the $${ escape are
// left alone, as is a $ that starts none of the forms. A %{ that opens no
// directive is escaped so that format strings such as "%{d}" pass through.
func normalize(tmpl string) string {
	if !strings.Contains(tmpl, "$") {
		return tmpl
	}
	var sb strings.Builder
	n := len(tmpl)
	for i := 0; i < n; {
		c := tmpl[i]
		if c == '%' && i+1 < n && (tmpl[i+1] == '%' || tmpl[i+1] == '{') {
			if tmpl[i+1] == '{' && !isDirective(tmpl[i+2:]) {
				sb.WriteString("%%{")
			} else {
				sb.WriteString(tmpl[i : i+2])
			}
			i += 2
			continue
		}
		if c != '$' || i+1 >= n {
			sb.WriteByte(c)
			i++
			continue
		}
		next := tmpl[i+1]
		switch {
		case next == '{' || next == '$':
			sb.WriteString(tmpl[i : i+2])
			i += 2
		case next == '(':
			end := matchParen(tmpl, i+1)
			if end < 0 {
				sb.WriteByte(c)
				i++
				continue
			}
			sb.WriteString("${")
			sb.WriteString(tmpl[i+2 : end])
			sb.WriteString("}")
			i = end + 1
		case isIdentStart(next):
			j := i + 1
			for j < n && isIdent(tmpl[j]) {
				j++
			}
			end := j
			switch {
			case strings.HasPrefix(tmpl[j:], "()"):
				end = j + 2
			case j+1 < n && tmpl[j] == '.' && isIdentStart(tmpl[j+1]):
				end = j + 1
				for end < n && isIdent(tmpl[end]) {
					end++
				}
			}
			sb.WriteString("${")
			sb.WriteString(tmpl[i+1 : end])
			sb.WriteString("}")
			i = end
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// matchParen returns the index of the parenthesis closing the one at open,
// or -1 when the text ends first.
func matchParen(s string, open int) int {
	depth := 0
	for j := open; j < len(s); j++ {
		switch s[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return j
			}
		}
	}
	return -1
}
