package style

// kwPrefix marks keyword arguments after preprocessing.
const kwPrefix = "__kw_"

// preprocess rewrites style source into something zygomys accepts:
//
//   - :keyword becomes the string "__kw_keyword", so keywords need no
//     global symbols
//   - kebab-case identifiers become snake_case (zygomys reads "-" as minus)
//   - ";" comments become "//" comments
//
// String literals are copied untouched.
func preprocess(source string) string {
	p := &scanner{src: []byte(source)}
	p.out = make([]byte, 0, len(source)+len(source)/4)
	for p.i < len(p.src) {
		switch c := p.src[p.i]; {
		case c == '"':
			p.quoted('"', true)
		case c == '`':
			p.quoted('`', false)
		case c == ';':
			p.comment()
		case c == ':' && p.peek(1) == '=':
			p.copy(2)
		case c == ':' && isLetter(p.peek(1)):
			p.keyword()
		case c == '-' && p.i > 0 && isIdentChar(p.src[p.i-1]) && isLetter(p.peek(1)):
			p.out = append(p.out, '_')
			p.i++
		default:
			p.copy(1)
		}
	}
	return string(p.out)
}

type scanner struct {
	src []byte
	out []byte
	i   int
}

func (p *scanner) peek(n int) byte {
	if p.i+n < len(p.src) {
		return p.src[p.i+n]
	}
	return 0
}

func (p *scanner) copy(n int) {
	end := p.i + n
	if end > len(p.src) {
		end = len(p.src)
	}
	p.out = append(p.out, p.src[p.i:end]...)
	p.i = end
}

// quoted copies a string literal including its delimiters.
func (p *scanner) quoted(delim byte, escapes bool) {
	p.copy(1)
	for p.i < len(p.src) && p.src[p.i] != delim {
		if escapes && p.src[p.i] == '\\' {
			p.copy(2)
			continue
		}
		p.copy(1)
	}
	p.copy(1)
}

// comment rewrites ";", ";;" and so on to "//" through end of line.
func (p *scanner) comment() {
	for p.i < len(p.src) && p.src[p.i] == ';' {
		p.i++
	}
	p.out = append(p.out, '/', '/')
	for p.i < len(p.src) && p.src[p.i] != '\n' {
		p.copy(1)
	}
}

func (p *scanner) keyword() {
	j := p.i + 1
	for j < len(p.src) && isKWChar(p.src[j]) {
		j++
	}
	p.out = append(p.out, '"')
	p.out = append(p.out, kwPrefix...)
	p.out = append(p.out, p.src[p.i+1:j]...)
	p.out = append(p.out, '"')
	p.i = j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
