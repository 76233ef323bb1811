package export

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/shelf/pkg/codec"
	"github.com/aretw0/shelf/pkg/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Snapshot is a point-in-time copy of the whole catalog.
type Snapshot struct {
	Books []core.Book `json:"books" yaml:"books"`
	Users []core.User `json:"users" yaml:"users"`
}

// Take copies the current state of the catalog.
func Take(c *core.Catalog) Snapshot {
	return Snapshot{Books: c.Books(), Users: c.Users()}
}

// Serializer defines how to read and write a snapshot in a specific format.
type Serializer interface {
	// Parse reads a snapshot from r.
	Parse(r io.Reader) (Snapshot, error)
	// Serialize converts the snapshot to bytes.
	Serialize(s Snapshot) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers keyed by format name.
func DefaultSerializers() map[string]Serializer {
	return map[string]Serializer{
		"json": NewJSONSerializer(),
		"yaml": NewYAMLSerializer(),
		"yml":  NewYAMLSerializer(),
		"text": NewTextSerializer(),
	}
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	var names []string
	for name := range DefaultSerializers() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the serializer for a format name or file extension.
func Lookup(format string) (Serializer, error) {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "txt" {
		format = "text"
	}
	s, ok := DefaultSerializers()[format]
	if !ok {
		return nil, fmt.Errorf("unknown format %q (want one of %s)", format, strings.Join(Formats(), ", "))
	}
	return s, nil
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON snapshots.
type JSONSerializer struct{}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

func (s *JSONSerializer) Parse(r io.Reader) (Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("invalid json: %w", err)
	}
	return snap, nil
}

func (s *JSONSerializer) Serialize(snap Snapshot) ([]byte, error) {
	return json.MarshalIndent(snap, "", "  ")
}

// --- YAML Serializer ---

type YAMLSerializer struct{}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer() *YAMLSerializer {
	return &YAMLSerializer{}
}

func (s *YAMLSerializer) Parse(r io.Reader) (Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("invalid yaml: %w", err)
	}
	return snap, nil
}

func (s *YAMLSerializer) Serialize(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(snap); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// --- Text Serializer ---

const (
	booksSection = "[books]"
	usersSection = "[users]"
)

// TextSerializer writes both record files into one document, each under a
// section header, using the same line codec as the data files.
type TextSerializer struct{}

// NewTextSerializer creates a new text serializer.
func NewTextSerializer() *TextSerializer {
	return &TextSerializer{}
}

func (s *TextSerializer) Parse(r io.Reader) (Snapshot, error) {
	var (
		snap    Snapshot
		section string
		n       int
	)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		n++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		switch line {
		case "":
			continue
		case booksSection, usersSection:
			section = line
			continue
		}

		switch section {
		case booksSection:
			b, err := codec.DecodeBook(line)
			if err != nil {
				return Snapshot{}, withLine(err, n)
			}
			snap.Books = append(snap.Books, b)
		case usersSection:
			u, err := codec.DecodeUser(line)
			if err != nil {
				return Snapshot{}, withLine(err, n)
			}
			snap.Users = append(snap.Users, u)
		default:
			return Snapshot{}, fmt.Errorf("line %d: record outside of a section", n)
		}
	}
	if err := scanner.Err(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

func (s *TextSerializer) Serialize(snap Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(booksSection + "\n")
	for _, b := range snap.Books {
		buf.WriteString(codec.EncodeBook(b))
		buf.WriteByte('\n')
	}
	buf.WriteString("\n" + usersSection + "\n")
	for _, u := range snap.Users {
		buf.WriteString(codec.EncodeUser(u))
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func withLine(err error, n int) error {
	if pe, ok := err.(*codec.ParseError); ok {
		pe.Line = n
		return pe
	}
	return err
}
