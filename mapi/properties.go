package mapi

import (
	"fmt"

	"github.com/sensepost/outmsg/cfb"
	"github.com/sensepost/outmsg/utils"
)

//HeaderKind selects the header layout of a property stream
type HeaderKind uint8

//Property stream header layouts, [MS-OXMSG] 2.4.1
const (
	TopLevelHeader HeaderKind = iota
	EmbeddedHeader
	SubObjectHeader
)

//Properties is the property collection of one message, recipient or attachment object
type Properties struct {
	Kind             HeaderKind
	NextRecipientID  uint32
	NextAttachmentID uint32
	RecipientCount   uint32
	AttachmentCount  uint32

	entries []*TaggedPropertyValue
	index   map[uint16]int
}

type pendingStream struct {
	name string
	data []byte
}

// NewProperties returns an empty collection writing the given header kind
func NewProperties(kind HeaderKind) *Properties {
	return &Properties{Kind: kind, index: make(map[uint16]int)}
}

// AddProperty encodes value as the tag's type and stores it under the tag's identifier.
// An identifier that is already present is overwritten in place, the last write wins.
func (p *Properties) AddProperty(tag PropertyTag, value interface{}, flags ...uint32) error {
	ev, err := Encode(tag.PropertyType, value)
	if err != nil {
		return fmt.Errorf("property %s: %w", tag, err)
	}
	p.set(tag, ev, combineFlags(flags, DefaultFlags))
	return nil
}

// AddOrReplaceProperty replaces the value stored under the tag's identifier, keeping the existing flags
// unless new ones are given. When the identifier is absent it behaves as AddProperty.
func (p *Properties) AddOrReplaceProperty(tag PropertyTag, value interface{}, flags ...uint32) error {
	i, ok := p.index[tag.PropertyID]
	if !ok {
		return p.AddProperty(tag, value, flags...)
	}
	ev, err := Encode(tag.PropertyType, value)
	if err != nil {
		return fmt.Errorf("property %s: %w", tag, err)
	}
	p.set(tag, ev, combineFlags(flags, p.entries[i].Flags))
	return nil
}

func (p *Properties) set(tag PropertyTag, ev *EncodedValue, flags uint32) {
	entry := &TaggedPropertyValue{PropertyTag: tag, Flags: flags, PropertyValue: ev}
	if i, ok := p.index[tag.PropertyID]; ok {
		utils.Trace.Printf("Overwriting property %s\n", tag)
		p.entries[i] = entry
		return
	}
	p.index[tag.PropertyID] = len(p.entries)
	p.entries = append(p.entries, entry)
}

func combineFlags(flags []uint32, fallback uint32) uint32 {
	if len(flags) == 0 {
		return fallback
	}
	var f uint32
	for _, flag := range flags {
		f |= flag
	}
	return f
}

// Get returns the entry stored under a property identifier
func (p *Properties) Get(id uint16) (*TaggedPropertyValue, bool) {
	i, ok := p.index[id]
	if !ok {
		return nil, false
	}
	return p.entries[i], true
}

// Value returns the decoded value stored under a property identifier
func (p *Properties) Value(id uint16) (interface{}, bool) {
	entry, ok := p.Get(id)
	if !ok {
		return nil, false
	}
	v, err := Decode(entry.PropertyValue)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Len is the number of distinct property identifiers held
func (p *Properties) Len() int {
	return len(p.entries)
}

// Entries returns the entries in insertion order
func (p *Properties) Entries() []*TaggedPropertyValue {
	out := make([]*TaggedPropertyValue, len(p.entries))
	copy(out, p.entries)
	return out
}

// Size is the number of bytes the properties take up once written, used for PidTagMessageSize
func (p *Properties) Size() int64 {
	var size int64
	for _, entry := range p.entries {
		size += 16
		ev := entry.PropertyValue
		size += int64(len(ev.Data))
		for _, v := range ev.Values {
			size += int64(len(v))
		}
	}
	return size
}

func (p *Properties) header() []byte {
	header := make([]byte, 8)
	if p.Kind == SubObjectHeader {
		return header
	}
	header = append(header, utils.EncodeNum(p.NextRecipientID)...)
	header = append(header, utils.EncodeNum(p.NextAttachmentID)...)
	header = append(header, utils.EncodeNum(p.RecipientCount)...)
	header = append(header, utils.EncodeNum(p.AttachmentCount)...)
	if p.Kind == TopLevelHeader {
		header = append(header, make([]byte, 8)...)
	}
	return header
}

// WriteProperties writes the property stream and the value streams into storage.
// A top level collection records messageSize as PidTagMessageSize when it is not negative.
// Every stream is built before the first one is written, so on error storage is untouched.
// It returns the number of bytes written.
func (p *Properties) WriteProperties(storage *cfb.Storage, messageSize int64) (int64, error) {
	if p.Kind == TopLevelHeader && messageSize >= 0 {
		if err := p.AddOrReplaceProperty(PidTagMessageSize, messageSize); err != nil {
			return 0, err
		}
	}

	stream := p.header()
	var streams []pendingStream
	for _, entry := range p.entries {
		record, values, err := entry.record()
		if err != nil {
			return 0, err
		}
		stream = append(stream, record...)
		streams = append(streams, values...)
	}
	streams = append(streams, pendingStream{PropertiesStream, stream})

	var written int64
	for _, s := range streams {
		if err := storage.AddStream(s.name, s.data); err != nil {
			return written, fmt.Errorf("writing %s: %w", s.name, err)
		}
		written += int64(len(s.data))
	}
	utils.Trace.Printf("Wrote %d properties (%d bytes) to %s\n", len(p.entries), written, storage.Name())
	return written, nil
}

// record builds the 16 byte property stream entry and any streams holding the value
func (entry *TaggedPropertyValue) record() ([]byte, []pendingStream, error) {
	tag := entry.PropertyTag
	ev := entry.PropertyValue
	record := append(utils.EncodeNum(tag.Tag()), utils.EncodeNum(entry.Flags)...)

	switch layoutOf(tag.PropertyType) {
	case layoutFixed:
		return append(record, pad8(ev.Inline)...), nil, nil
	case layoutVariable:
		size := uint32(len(ev.Data)) + uint32(len(terminator(tag.PropertyType)))
		record = append(record, utils.EncodeNum(size)...)
		record = append(record, 0, 0, 0, 0)
		return record, []pendingStream{{tag.StreamName(), ev.Data}}, nil
	case layoutMultipleFixed:
		record = append(record, utils.EncodeNum(uint32(len(ev.Data)))...)
		record = append(record, 0, 0, 0, 0)
		return record, []pendingStream{{tag.StreamName(), ev.Data}}, nil
	case layoutMultipleVariable:
		record = append(record, utils.EncodeNum(uint32(len(ev.Data)))...)
		record = append(record, 0, 0, 0, 0)
		streams := []pendingStream{{tag.StreamName(), ev.Data}}
		for i, v := range ev.Values {
			streams = append(streams, pendingStream{fmt.Sprintf("%s-%08X", tag.StreamName(), i), v})
		}
		return record, streams, nil
	}
	return nil, nil, fmt.Errorf("property %s: %w: %s", tag, ErrUnsupportedType, tag.PropertyType)
}

func pad8(b []byte) []byte {
	out := make([]byte, 8)
	copy(out, b)
	return out
}
