package mapi

import (
	"errors"
	"fmt"
	"hash/crc32"

	"github.com/google/uuid"

	"github.com/sensepost/outmsg/cfb"
	"github.com/sensepost/outmsg/utils"
)

// ErrRegistryFull is returned once every identifier in 0x8000-0xFFFF is taken
var ErrRegistryFull = errors.New("named property identifiers exhausted")

const maxNamedProperties = 0x10000 - namedPropertyBase

//fixed GUID stream indexes, custom property sets follow from 3
const (
	guidIndexMAPI          = 1
	guidIndexPublicStrings = 2
	guidIndexFirstCustom   = 3
)

//NamedProperties maps named properties onto the 0x8000-0xFFFF identifiers of a property collection
//and writes the __nameid_version1.0 streams describing that mapping
type NamedProperties struct {
	props   PropertyAdder
	entries []NamedProperty
	guids   []uuid.UUID
	ids     map[namedKey]int
}

type namedKey struct {
	guid uuid.UUID
	kind PropertyKind
	name string
	id   uint32
}

// NewNamedProperties returns an empty registry storing values through props
func NewNamedProperties(props PropertyAdder) *NamedProperties {
	return &NamedProperties{props: props, ids: make(map[namedKey]int)}
}

// AddProperty allocates the next identifier for tag and stores value under it in the property collection.
// Registering the same named property again (same GUID, kind and name or lid) appends no second entry:
// it keeps its identifier and entry and overwrites the value in the collection.
// Nothing is recorded when the value can not be stored.
func (n *NamedProperties) AddProperty(tag NamedPropertyTag, value interface{}) error {
	kind := tag.Kind()
	key := namedKey{guid: tag.Guid, kind: kind}
	if kind == KindName {
		key.name = tag.ShortName()
	} else {
		key.id = tag.ID
	}

	i, exists := n.ids[key]
	if !exists {
		i = len(n.entries)
		if i >= maxNamedProperties {
			return fmt.Errorf("named property %s: %w", tag.Name, ErrRegistryFull)
		}
	}
	propertyIndex := uint16(namedPropertyBase + i)
	if err := n.props.AddProperty(PropertyTag{tag.Type, propertyIndex}, value); err != nil {
		return fmt.Errorf("named property %s: %w", tag.Name, err)
	}
	if exists {
		return nil
	}

	entry := NamedProperty{Guid: tag.Guid, Kind: kind}
	if kind == KindName {
		entry.Name = key.name
		entry.NameIdentifier = uint32(propertyIndex)
		entry.NameSize = uint32(len(utils.UTF16(entry.Name)) / 2)
	} else {
		entry.Name = tag.ShortName()
		entry.NameIdentifier = tag.ID
	}
	if tag.Guid != PSMAPI && tag.Guid != PSPublicStrings && n.guidPosition(tag.Guid) < 0 {
		n.guids = append(n.guids, tag.Guid)
	}
	n.ids[key] = i
	n.entries = append(n.entries, entry)
	utils.Trace.Printf("Named property %s mapped to 0x%04X\n", tag.Name, propertyIndex)
	return nil
}

// PropertyID returns the identifier a registered named property is stored under
func (n *NamedProperties) PropertyID(tag NamedPropertyTag) (uint16, bool) {
	key := namedKey{guid: tag.Guid, kind: tag.Kind()}
	if key.kind == KindName {
		key.name = tag.ShortName()
	} else {
		key.id = tag.ID
	}
	i, ok := n.ids[key]
	if !ok {
		return 0, false
	}
	return uint16(namedPropertyBase + i), true
}

// Len is the number of registered named properties
func (n *NamedProperties) Len() int {
	return len(n.entries)
}

// Entries returns the registered named properties in registration order
func (n *NamedProperties) Entries() []NamedProperty {
	out := make([]NamedProperty, len(n.entries))
	copy(out, n.entries)
	return out
}

// Guids returns the custom property sets in the order they were first referenced
func (n *NamedProperties) Guids() []uuid.UUID {
	out := make([]uuid.UUID, len(n.guids))
	copy(out, n.guids)
	return out
}

func (n *NamedProperties) guidPosition(guid uuid.UUID) int {
	for i, g := range n.guids {
		if g == guid {
			return i
		}
	}
	return -1
}

// GuidIndex returns the GUID stream index of the entry's property set
func (n *NamedProperties) GuidIndex(entry NamedProperty) uint16 {
	switch entry.Guid {
	case PSMAPI:
		return guidIndexMAPI
	case PSPublicStrings:
		return guidIndexPublicStrings
	}
	return uint16(guidIndexFirstCustom + n.guidPosition(entry.Guid))
}

// NameIdentifier is the lid of a Lid-kind entry or the CRC-32 of the UTF-16 name of a Name-kind entry
func NameIdentifier(entry NamedProperty) uint32 {
	if entry.Kind == KindName {
		return nameChecksum(utils.UTF16(entry.Name))
	}
	return entry.NameIdentifier
}

// nameChecksum is the CRC-32 variant of [MS-OXRTFCP] 2.1.3.2, zero seed and no final inversion
func nameChecksum(p []byte) uint32 {
	return ^crc32.Update(0xFFFFFFFF, crc32.IEEETable, p)
}

// StreamName returns the name of the mapping stream the entry is written to, [MS-OXMSG] 2.2.3.2.2
func (n *NamedProperties) StreamName(entry NamedProperty) string {
	discriminator := uint32(n.GuidIndex(entry))<<1 | uint32(entry.Kind)
	streamID := 0x1000 + (NameIdentifier(entry)^discriminator)%0x1F
	return fmt.Sprintf("__substg1.0_%08X", streamID<<16|uint32(PtypBinary))
}

// indexAndKind packs the second half of an entry or mapping record
func indexAndKind(propertyIndex int, guidIndex uint16, kind PropertyKind) uint32 {
	return uint32(propertyIndex)<<16 | uint32(guidIndex)<<1 | uint32(kind)
}

// WriteProperties writes the GUID, entry and string streams and one mapping stream per entry
// into the __nameid_version1.0 storage, which must already exist below storage.
func (n *NamedProperties) WriteProperties(storage *cfb.Storage) error {
	nameid, ok := storage.Storage(NameIDStorage)
	if !ok {
		panic(fmt.Sprintf("mapi: %s storage missing from %s", NameIDStorage, storage.Name()))
	}

	guidStream := []byte{}
	for _, guid := range n.guids {
		guidStream = append(guidStream, utils.GUIDToByteArray(guid)...)
	}

	entryStream := []byte{}
	stringStream := []byte{}
	mappings := map[string][]byte{}
	var mappingOrder []string
	for propertyIndex, entry := range n.entries {
		guidIndex := n.GuidIndex(entry)
		descriptor := indexAndKind(propertyIndex, guidIndex, entry.Kind)

		if entry.Kind == KindName {
			offset := uint32(len(stringStream))
			name := utils.UTF16(entry.Name)
			stringStream = append(stringStream, utils.EncodeNum(uint32(len(name)))...)
			stringStream = append(stringStream, name...)
			for len(stringStream)%4 != 0 {
				stringStream = append(stringStream, 0x00)
			}
			entryStream = append(entryStream, utils.EncodeNum(offset)...)
		} else {
			entryStream = append(entryStream, utils.EncodeNum(entry.NameIdentifier)...)
		}
		entryStream = append(entryStream, utils.EncodeNum(descriptor)...)

		mapping := append(utils.EncodeNum(NameIdentifier(entry)), utils.EncodeNum(descriptor)...)
		streamName := n.StreamName(entry)
		if _, seen := mappings[streamName]; !seen {
			mappingOrder = append(mappingOrder, streamName)
		}
		mappings[streamName] = append(mappings[streamName], mapping...)
	}

	for _, name := range mappingOrder {
		if err := nameid.AddStream(name, mappings[name]); err != nil {
			return err
		}
	}
	for _, s := range []pendingStream{{GUIDStream, guidStream}, {EntryStream, entryStream}, {StringStream, stringStream}} {
		if err := nameid.AddStream(s.name, s.data); err != nil {
			return err
		}
	}
	utils.Trace.Printf("Wrote %d named properties, %d property sets\n", len(n.entries), len(n.guids))
	return nil
}
