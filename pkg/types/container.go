package types

import (
	"fmt"

	"github.com/google/uuid"
)

// ContainerType distinguishes the kinds of container.
type ContainerType string

// Container types.
const (
	ContainerFolder ContainerType = "folder"
	ContainerGroup  ContainerType = "group"
)

// containerTypeCodes maps each container type to its wire code.
var containerTypeCodes = map[ContainerType]uint64{
	ContainerFolder: 0,
	ContainerGroup:  1,
}

// Valid reports whether t is a known container type.
func (t ContainerType) Valid() bool {
	_, ok := containerTypeCodes[t]
	return ok
}

func containerTypeFromCode(code uint64) (ContainerType, bool) {
	for t, c := range containerTypeCodes {
		if c == code {
			return t, true
		}
	}
	return "", false
}

// Container is a folder or group that bookmarks and other containers can
// point at. Parents are weak references and must exist when the container
// is created, so the parent graph cannot contain a cycle.
type Container struct {
	ID        uuid.UUID     `json:"id" yaml:"id"`
	Label     string        `json:"label" yaml:"label"`
	Container *uuid.UUID    `json:"container" yaml:"container"`
	Type      ContainerType `json:"container_type" yaml:"container_type"`
}

// NewContainer creates a container with a freshly generated ID.
func NewContainer(label string, parent *uuid.UUID, kind ContainerType) (Container, error) {
	c := Container{
		ID:        NewID(),
		Label:     label,
		Container: parent,
		Type:      kind,
	}
	if err := c.Validate(); err != nil {
		return Container{}, err
	}
	return c, nil
}

// NewID generates a UUID v7, falling back to v4 if v7 generation fails.
func NewID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// Key returns the string form of the ID.
func (c Container) Key() string {
	return c.ID.String()
}

// Validate checks the required fields.
func (c Container) Validate() error {
	if c.ID == uuid.Nil {
		return fmt.Errorf("%w: container id must not be nil", ErrInvalidRecord)
	}
	if c.Label == "" {
		return fmt.Errorf("%w: label must not be empty", ErrInvalidRecord)
	}
	if !c.Type.Valid() {
		return fmt.Errorf("%w: unknown container type %q", ErrInvalidRecord, c.Type)
	}
	if c.Container != nil && *c.Container == c.ID {
		return fmt.Errorf("%w: container cannot be its own parent", ErrInvalidRecord)
	}
	return nil
}

// Pack returns the canonical binary encoding of the container.
func (c Container) Pack() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	p := newPacker(containerTag)
	p = p.appendUUID(c.ID)
	p = p.appendString(c.Label)
	p = p.appendOptionalUUID(c.Container)
	p = p.appendUvarint(containerTypeCodes[c.Type])
	return p.seal(), nil
}

// Unpack decodes data produced by Pack into c.
func (c *Container) Unpack(data []byte) error {
	u := openRecord(data, containerTag)
	out := Container{
		ID:        u.uuid(),
		Label:     u.string(),
		Container: u.optionalUUID(),
	}
	code := u.uvarint()
	if err := u.finish(); err != nil {
		return err
	}
	kind, ok := containerTypeFromCode(code)
	if !ok {
		return fmt.Errorf("%w: unknown container type code %d", ErrCorruptRecord, code)
	}
	out.Type = kind
	*c = out
	return nil
}

func (c Container) String() string {
	return fmt.Sprintf("%s %s (%s)", c.Type, c.Label, c.ID)
}
