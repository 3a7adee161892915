package types

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Bookmark is a saved URL. The link is the primary key: storing a second
// bookmark with the same link replaces the first.
type Bookmark struct {
	Link        string     `json:"link" yaml:"link"`
	Label       string     `json:"label" yaml:"label"`
	Description *string    `json:"description" yaml:"description"`
	Tags        []string   `json:"tags" yaml:"tags"`
	Container   *uuid.UUID `json:"container" yaml:"container"` // weak reference to a Container
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
}

// NewBookmark builds a bookmark for rawURL stamped with the current time.
// The link is stored in canonical form. Returns ErrInvalidRecord if the URL
// is not absolute or the label is empty.
func NewBookmark(rawURL, label string, description *string, tags []string) (Bookmark, error) {
	link, err := CanonicalLink(rawURL)
	if err != nil {
		return Bookmark{}, err
	}
	b := Bookmark{
		Link:        link,
		Label:       label,
		Description: description,
		Tags:        tags,
		CreatedAt:   time.Now().Round(0),
	}
	if err := b.Validate(); err != nil {
		return Bookmark{}, err
	}
	return b, nil
}

// CanonicalLink parses rawURL and returns its canonical string form, the
// form used as a bookmark key.
func CanonicalLink(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: link: %v", ErrInvalidRecord, err)
	}
	if !u.IsAbs() {
		return "", fmt.Errorf("%w: link %q is not an absolute URL", ErrInvalidRecord, rawURL)
	}
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

// Key returns the canonical form of the link, so every spelling of one
// URL maps to the same record.
func (b Bookmark) Key() string {
	if link, err := CanonicalLink(b.Link); err == nil {
		return link
	}
	return b.Link
}

// Validate checks the required fields.
func (b Bookmark) Validate() error {
	if b.Link == "" {
		return fmt.Errorf("%w: link must not be empty", ErrInvalidRecord)
	}
	if _, err := CanonicalLink(b.Link); err != nil {
		return err
	}
	if b.Label == "" {
		return fmt.Errorf("%w: label must not be empty", ErrInvalidRecord)
	}
	return nil
}

// Pack returns the canonical binary encoding of the bookmark. The link is
// written in the canonical form returned by Key.
func (b Bookmark) Pack() ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	created, err := b.CreatedAt.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("%w: created_at: %v", ErrInvalidRecord, err)
	}

	p := newPacker(bookmarkTag)
	p = p.appendString(b.Key())
	p = p.appendString(b.Label)
	p = p.appendOptionalString(b.Description)
	p = p.appendStrings(b.Tags)
	p = p.appendOptionalUUID(b.Container)
	p = p.appendBytes(created)
	return p.seal(), nil
}

// Unpack decodes data produced by Pack into b.
func (b *Bookmark) Unpack(data []byte) error {
	u := openRecord(data, bookmarkTag)
	out := Bookmark{
		Link:        u.string(),
		Label:       u.string(),
		Description: u.optionalString(),
		Tags:        u.strings(),
		Container:   u.optionalUUID(),
	}
	created := u.bytes()
	if err := u.finish(); err != nil {
		return err
	}
	if err := out.CreatedAt.UnmarshalBinary(created); err != nil {
		return fmt.Errorf("%w: created_at: %v", ErrCorruptRecord, err)
	}
	*b = out
	return nil
}

// MarshalJSON writes a missing tag list as an empty array.
func (b Bookmark) MarshalJSON() ([]byte, error) {
	type plain Bookmark
	out := plain(b)
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return json.Marshal(out)
}

// String renders the bookmark for terminal output.
func (b Bookmark) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Bookmark: %s\n", b.Label)
	fmt.Fprintf(&sb, "%s\n", b.Link)
	if b.Description != nil && *b.Description != "" {
		fmt.Fprintf(&sb, "%s\n", *b.Description)
	}
	fmt.Fprintf(&sb, "Tags: [%s]\n", strings.Join(b.Tags, ", "))
	fmt.Fprintf(&sb, "Created at: %s\n", b.CreatedAt.Local().Format(time.RFC1123Z))
	return sb.String()
}
