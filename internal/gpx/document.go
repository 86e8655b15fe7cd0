package gpx

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/muktihari/xmltokenizer"
)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"

	// readAhead covers the tokenizer's read buffers on top of the document
	// itself, so a single token never exceeds the grow limit.
	readAhead = 64 << 10
)

// ErrMalformedDocument is returned when the document cannot be tokenized,
// for example because of a bare '<' in text or an unterminated tag.
var ErrMalformedDocument = errors.New("malformed document")

// element is one node of the lightweight tree built from a document. Names
// are lower-cased so that lookups ignore case.
type element struct {
	name     string
	attrs    map[string]string
	data     []byte
	children []*element
}

// decode builds an element tree rooted at a synthetic node. The tokenizer
// frames each tag together with the character data that follows it; names,
// attributes and text are read from those raw bytes. Unbalanced end tags
// close the nearest open element of that name and are ignored when none is
// open. On a tokenizing error the tree read so far is returned along with
// ErrMalformedDocument.
func decode(doc string) (*element, error) {
	root := &element{}
	stack := []*element{root}

	tok := xmltokenizer.New(strings.NewReader(doc),
		xmltokenizer.WithAutoGrowBufferMaxLimitSize(len(doc)+readAhead))
	for {
		raw, err := tok.RawToken()
		if errors.Is(err, io.EOF) {
			return root, nil
		}
		if err != nil {
			return root, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		top := stack[len(stack)-1]

		if len(raw) < 2 || raw[0] != '<' {
			top.appendData(raw)
			continue
		}
		if raw[1] == '?' || raw[1] == '!' {
			if bytes.HasPrefix(raw, []byte(cdataOpen)) {
				top.appendData(raw)
			}
			continue
		}

		t, ok := parseTag(raw)
		if !ok {
			return root, fmt.Errorf("%w: invalid tag %q", ErrMalformedDocument, truncate(raw, 32))
		}

		if t.end {
			for i := len(stack) - 1; i > 0; i-- {
				if stack[i].name == t.name {
					stack = stack[:i]
					break
				}
			}
			stack[len(stack)-1].appendData(t.data)
			continue
		}

		el := &element{name: t.name, attrs: t.attrs}
		top.children = append(top.children, el)
		if t.selfClosing {
			top.appendData(t.data)
			continue
		}
		el.appendData(t.data)
		stack = append(stack, el)
	}
}

type tag struct {
	name        string
	attrs       map[string]string
	end         bool
	selfClosing bool
	data        []byte
}

// parseTag reads one framed token: "<name attrs>", "<name attrs/>" or
// "</name>", each optionally followed by character data. Attribute values may
// be single or double quoted, or bare, and may contain '=', '/' or '>'.
// The first occurrence of a repeated attribute wins.
func parseTag(raw []byte) (tag, bool) {
	var t tag
	i := 1
	if raw[i] == '/' {
		t.end = true
		i++
	}

	start := i
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' && raw[i] != '/' {
		i++
	}
	if i == start || !isNameStart(raw[start]) {
		return t, false
	}
	t.name = strings.ToLower(string(raw[start:i]))

	for i < len(raw) {
		switch c := raw[i]; {
		case isSpace(c):
			i++
		case c == '/':
			t.selfClosing = i+1 < len(raw) && raw[i+1] == '>'
			i++
		case c == '>':
			t.data = raw[i+1:]
			return t, true
		default:
			var name, value string
			name, value, i = parseAttr(raw, i)
			if name == "" {
				continue
			}
			if t.attrs == nil {
				t.attrs = make(map[string]string)
			}
			if _, dup := t.attrs[name]; !dup {
				t.attrs[name] = value
			}
		}
	}
	return t, true
}

func parseAttr(raw []byte, i int) (name, value string, next int) {
	start := i
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '=' && raw[i] != '>' && raw[i] != '/' {
		i++
	}
	name = strings.ToLower(string(raw[start:i]))

	i = skipSpace(raw, i)
	if i >= len(raw) || raw[i] != '=' {
		return name, "", i
	}
	i = skipSpace(raw, i+1)

	if i < len(raw) && (raw[i] == '"' || raw[i] == '\'') {
		quote := raw[i]
		end := bytes.IndexByte(raw[i+1:], quote)
		if end < 0 {
			return name, html.UnescapeString(string(raw[i+1:])), len(raw)
		}
		return name, html.UnescapeString(string(raw[i+1 : i+1+end])), i + end + 2
	}

	start = i
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '>' {
		i++
	}
	return name, html.UnescapeString(string(raw[start:i])), i
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isNameStart(c byte) bool {
	return c == '_' || c == ':' || c >= 0x80 || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func skipSpace(raw []byte, i int) int {
	for i < len(raw) && isSpace(raw[i]) {
		i++
	}
	return i
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}

// appendData adds character data to the element. Entities are resolved
// outside CDATA sections; CDATA content is kept verbatim.
func (e *element) appendData(b []byte) {
	s := string(b)
	for s != "" {
		open := strings.Index(s, cdataOpen)
		if open < 0 {
			e.data = append(e.data, html.UnescapeString(s)...)
			return
		}
		e.data = append(e.data, html.UnescapeString(s[:open])...)
		s = s[open+len(cdataOpen):]

		end := strings.Index(s, cdataClose)
		if end < 0 {
			e.data = append(e.data, s...)
			return
		}
		e.data = append(e.data, s[:end]...)
		s = s[end+len(cdataClose):]
	}
}

// find returns the first descendant named name in document order, or nil.
// It is safe to call on a nil element.
func (e *element) find(name string) *element {
	if e == nil {
		return nil
	}
	for _, c := range e.children {
		if c.name == name {
			return c
		}
		if found := c.find(name); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every descendant named name in document order. Matches are
// not searched for further nested matches.
func (e *element) findAll(name string) []*element {
	var out []*element
	e.walk(name, func(el *element) { out = append(out, el) })
	return out
}

func (e *element) walk(name string, fn func(*element)) {
	if e == nil {
		return
	}
	for _, c := range e.children {
		if c.name == name {
			fn(c)
			continue
		}
		c.walk(name, fn)
	}
}

// text returns the trimmed character data of the element, or nil when the
// element itself is nil.
func (e *element) text() *string {
	if e == nil {
		return nil
	}
	s := strings.TrimSpace(string(e.data))
	return &s
}

// textOrEmpty is text with absence mapped to the empty string.
func (e *element) textOrEmpty() string {
	if t := e.text(); t != nil {
		return *t
	}
	return ""
}

// attr returns the named attribute and whether it was present.
func (e *element) attr(name string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.attrs[name]
	return v, ok
}
