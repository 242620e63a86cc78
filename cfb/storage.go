// Package cfb holds a tree of storages and streams in memory and serializes it as a
// Compound File Binary (structured storage) file, the container used by .msg files.
package cfb

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"
)

// RootName is the name every compound file gives its root storage
const RootName = "Root Entry"

// maxNameLength is the longest entry name in UTF-16 code units, not counting the terminator
const maxNameLength = 31

var (
	// ErrInvalidName is returned for names that can not be stored in a directory entry
	ErrInvalidName = errors.New("cfb: invalid entry name")
	// ErrExists is returned when a name is already taken by an entry of the other kind
	ErrExists = errors.New("cfb: entry already exists")
)

// Stream is a named blob of bytes inside a storage
type Stream struct {
	Name string
	Data []byte
}

// Storage is a directory of streams and child storages
type Storage struct {
	name     string
	CLSID    uuid.UUID
	storages []*Storage
	streams  []*Stream
}

// New creates an empty root storage
func New() *Storage {
	return &Storage{name: RootName}
}

// Name of the storage
func (s *Storage) Name() string {
	return s.name
}

// AddStorage creates a child storage, or returns the existing one with that name
func (s *Storage) AddStorage(name string) (*Storage, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	if st, ok := s.Storage(name); ok {
		return st, nil
	}
	if _, ok := s.Stream(name); ok {
		return nil, fmt.Errorf("%w: %q is a stream", ErrExists, name)
	}
	st := &Storage{name: name}
	s.storages = append(s.storages, st)
	return st, nil
}

// AddStream creates a stream with the given content, replacing the content of an existing stream
func (s *Storage) AddStream(name string, data []byte) error {
	if err := validName(name); err != nil {
		return err
	}
	if _, ok := s.Storage(name); ok {
		return fmt.Errorf("%w: %q is a storage", ErrExists, name)
	}
	for _, stm := range s.streams {
		if strings.EqualFold(stm.Name, name) {
			stm.Data = data
			return nil
		}
	}
	s.streams = append(s.streams, &Stream{Name: name, Data: data})
	return nil
}

// Storage returns the child storage with the given name
func (s *Storage) Storage(name string) (*Storage, bool) {
	for _, st := range s.storages {
		if strings.EqualFold(st.name, name) {
			return st, true
		}
	}
	return nil, false
}

// Stream returns the content of the child stream with the given name
func (s *Storage) Stream(name string) ([]byte, bool) {
	for _, stm := range s.streams {
		if strings.EqualFold(stm.Name, name) {
			return stm.Data, true
		}
	}
	return nil, false
}

// Storages lists the child storages in insertion order
func (s *Storage) Storages() []*Storage {
	return s.storages
}

// Streams lists the child streams in insertion order
func (s *Storage) Streams() []*Stream {
	return s.streams
}

func validName(name string) error {
	n := len(utf16.Encode([]rune(name)))
	if n == 0 || n > maxNameLength {
		return fmt.Errorf("%w: %q must be 1 to %d characters", ErrInvalidName, name, maxNameLength)
	}
	if strings.ContainsAny(name, "/\\:!") {
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidName, name)
	}
	return nil
}
