package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/shelf/pkg/core"
)

const (
	// Delimiter separates fields within a record line.
	Delimiter = '|'
	escape    = '\\'

	bookFields = 5
	userFields = 2
)

// ParseError describes a record line that could not be decoded.
type ParseError struct {
	Record string // "book" or "user"
	Field  string
	Value  string
	Line   int // 1-based, zero when unknown
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("invalid ")
	b.WriteString(e.Record)
	if e.Line > 0 {
		fmt.Fprintf(&b, " on line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %s=%q", e.Field, e.Value)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes core.ErrParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{core.ErrParse}
	}
	return []error{core.ErrParse, e.Err}
}

// EncodeBook serializes a book as title|author|isbn|year|flag.
func EncodeBook(b core.Book) string {
	flag := "0"
	if b.Available {
		flag = "1"
	}
	return join(b.Title, b.Author, b.ISBN, strconv.Itoa(b.Year), flag)
}

// DecodeBook parses a line produced by EncodeBook.
// Only the first four delimiters split; the remainder is the availability
// flag, which is true only when it equals "1".
func DecodeBook(line string) (core.Book, error) {
	fields := split(line, bookFields)
	if len(fields) < bookFields {
		return core.Book{}, &ParseError{
			Record: "book",
			Err:    fmt.Errorf("expected %d fields, got %d", bookFields, len(fields)),
		}
	}

	year, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return core.Book{}, &ParseError{Record: "book", Field: "year", Value: fields[3], Err: err}
	}

	return core.Book{
		Title:     fields[0],
		Author:    fields[1],
		ISBN:      fields[2],
		Year:      year,
		Available: fields[4] == "1",
	}, nil
}

// EncodeUser serializes a user as name|id followed by each borrowed ISBN.
func EncodeUser(u core.User) string {
	fields := make([]string, 0, userFields+len(u.Borrowed))
	fields = append(fields, u.Name, strconv.Itoa(u.ID))
	fields = append(fields, u.Borrowed...)
	return join(fields...)
}

// DecodeUser parses a line produced by EncodeUser. Borrowed ISBNs are
// returned as stored; resolving them against the books is up to the caller.
func DecodeUser(line string) (core.User, error) {
	fields := split(line, -1)
	if len(fields) < userFields {
		return core.User{}, &ParseError{
			Record: "user",
			Err:    fmt.Errorf("expected at least %d fields, got %d", userFields, len(fields)),
		}
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return core.User{}, &ParseError{Record: "user", Field: "id", Value: fields[1], Err: err}
	}

	u := core.User{Name: fields[0], ID: id}
	if len(fields) > userFields {
		u.Borrowed = fields[userFields:]
	}
	return u, nil
}

func join(fields ...string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(Delimiter)
		}
		for j := 0; j < len(f); j++ {
			switch c := f[j]; c {
			case Delimiter, escape:
				b.WriteByte(escape)
				b.WriteByte(c)
			case '\n':
				b.WriteString(`\n`)
			case '\r':
				b.WriteString(`\r`)
			default:
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

// split breaks line on unescaped delimiters, unescaping each field.
// With n > 0 at most n fields are returned and the last one keeps any
// further delimiters verbatim.
func split(line string, n int) []string {
	var (
		fields []string
		cur    strings.Builder
	)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if n > 0 && len(fields) == n-1 {
			// Last field: unescape but do not split.
			if c == escape && i+1 < len(line) {
				i++
				c = unescape(line[i])
			}
			cur.WriteByte(c)
			continue
		}
		switch {
		case c == escape && i+1 < len(line):
			i++
			cur.WriteByte(unescape(line[i]))
		case c == Delimiter:
			fields = append(fields, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	return append(fields, cur.String())
}

// unescape maps the byte following a backslash back to its raw value.
func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	}
	return c
}
