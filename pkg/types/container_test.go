package types

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerPackRoundTrip(t *testing.T) {
	parent := NewID()
	tests := []struct {
		name string
		in   Container
	}{
		{name: "root folder", in: Container{ID: NewID(), Label: "Reading", Type: ContainerFolder}},
		{name: "nested group", in: Container{ID: NewID(), Label: "Tabs", Container: &parent, Type: ContainerGroup}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := tt.in.Pack()
			require.NoError(t, err)

			var got Container
			require.NoError(t, got.Unpack(data))
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestNewContainer(t *testing.T) {
	c, err := NewContainer("Work", nil, ContainerFolder)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, c.ID)
	assert.Equal(t, c.ID.String(), c.Key())

	other, err := NewContainer("Work", nil, ContainerFolder)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, other.ID, "ids must be unique")
}

func TestContainerValidate(t *testing.T) {
	self := NewID()
	tests := []struct {
		name string
		in   Container
	}{
		{name: "nil id", in: Container{Label: "x", Type: ContainerFolder}},
		{name: "empty label", in: Container{ID: NewID(), Type: ContainerFolder}},
		{name: "unknown type", in: Container{ID: NewID(), Label: "x", Type: "shelf"}},
		{name: "own parent", in: Container{ID: self, Label: "x", Container: &self, Type: ContainerGroup}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.Pack()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRecord))
		})
	}
}

func TestContainerUnpackRejectsBookmark(t *testing.T) {
	data, err := sampleBookmark().Pack()
	require.NoError(t, err)

	var c Container
	err = c.Unpack(data)
	assert.True(t, errors.Is(err, ErrCorruptRecord))
}
