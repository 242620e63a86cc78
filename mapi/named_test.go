package mapi

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensepost/outmsg/cfb"
	"github.com/sensepost/outmsg/utils"
)

func newRegistry(t *testing.T) (*Properties, *NamedProperties, *cfb.Storage) {
	t.Helper()
	props := NewProperties(TopLevelHeader)
	storage := cfb.New()
	_, err := storage.AddStorage(NameIDStorage)
	require.NoError(t, err)
	return props, NewNamedProperties(props), storage
}

func TestNamedPropertiesScenario(t *testing.T) {
	props, named, storage := newRegistry(t)
	require.NoError(t, named.AddProperty(PidNameKeywords, []string{"red", "blue"}))
	require.NoError(t, named.AddProperty(PidLidCategories, []string{"red", "blue"}))
	require.NoError(t, named.AddProperty(PidLidFlagRequest, "Follow up"))

	assert.Equal(t, []uuid.UUID{PSETIDCommon}, named.Guids())

	entries := named.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, uint16(2), named.GuidIndex(entries[0]))
	assert.Equal(t, uint16(3), named.GuidIndex(entries[1]))
	assert.Equal(t, uint16(3), named.GuidIndex(entries[2]))

	v, ok := props.Value(0x8000)
	require.True(t, ok)
	assert.Equal(t, []string{"red", "blue"}, v)
	v, ok = props.Value(0x8002)
	require.True(t, ok)
	assert.Equal(t, "Follow up", v)

	require.NoError(t, named.WriteProperties(storage))
	nameid, _ := storage.Storage(NameIDStorage)

	guids, ok := nameid.Stream(GUIDStream)
	require.True(t, ok)
	assert.Equal(t, utils.GUIDToByteArray(PSETIDCommon), guids)

	entryStream, ok := nameid.Stream(EntryStream)
	require.True(t, ok)
	assert.Equal(t, []byte{
		0x00, 0x00, 0x00, 0x00, 0x05, 0x00, 0x00, 0x00, // offset 0, index 0, guid 2, name
		0x00, 0x90, 0x00, 0x00, 0x06, 0x00, 0x01, 0x00, // lid 0x9000, index 1, guid 3
		0x30, 0x85, 0x00, 0x00, 0x06, 0x00, 0x02, 0x00, // lid 0x8530, index 2, guid 3
	}, entryStream)

	strings, ok := nameid.Stream(StringStream)
	require.True(t, ok)
	name := utils.UTF16("Keywords")
	assert.Equal(t, append([]byte{byte(len(name)), 0, 0, 0}, name...), strings)

	mappings := map[string][]byte{
		"__substg1.0_10150102": {0x3B, 0x4D, 0xDA, 0x2E, 0x05, 0x00, 0x00, 0x00},
		"__substg1.0_100B0102": {0x00, 0x90, 0x00, 0x00, 0x06, 0x00, 0x01, 0x00},
		"__substg1.0_10020102": {0x30, 0x85, 0x00, 0x00, 0x06, 0x00, 0x02, 0x00},
	}
	for name, want := range mappings {
		got, ok := nameid.Stream(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}
	assert.Len(t, nameid.Streams(), 6)
}

func TestKindPartition(t *testing.T) {
	_, named, _ := newRegistry(t)
	require.NoError(t, named.AddProperty(PidNameKeywords, []string{"x"}))
	require.NoError(t, named.AddProperty(PidLidLocation, "Room 1"))

	entries := named.Entries()
	assert.Equal(t, KindName, entries[0].Kind)
	assert.Equal(t, "Keywords", entries[0].Name)
	assert.Equal(t, uint32(len("Keywords")), entries[0].NameSize)
	assert.Equal(t, uint32(0x8000), entries[0].NameIdentifier)

	assert.Equal(t, KindLid, entries[1].Kind)
	assert.Equal(t, uint32(0), entries[1].NameSize)
	assert.Equal(t, uint32(0x8208), entries[1].NameIdentifier)
}

func TestNameIdentifierChecksum(t *testing.T) {
	entry := NamedProperty{Kind: KindName, Name: "Keywords"}
	assert.Equal(t, uint32(0x2EDA4D3B), NameIdentifier(entry))

	lid := NamedProperty{Kind: KindLid, NameIdentifier: 0x8530}
	assert.Equal(t, uint32(0x8530), NameIdentifier(lid))
}

func TestIdentifierUniqueness(t *testing.T) {
	props, named, _ := newRegistry(t)
	seen := map[uint16]bool{}
	for i := 0; i < 300; i++ {
		tag := NamedPropertyTag{fmt.Sprintf("PidNameCustom%d", i), 0, PSPublicStrings, PtypInteger32}
		require.NoError(t, named.AddProperty(tag, i))
		id, ok := named.PropertyID(tag)
		require.True(t, ok)
		assert.GreaterOrEqual(t, id, uint16(0x8000))
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Equal(t, 300, props.Len())
}

func TestGuidIndexStability(t *testing.T) {
	_, named, storage := newRegistry(t)
	g1, g2, g3 := uuid.New(), uuid.New(), uuid.New()
	order := []uuid.UUID{g1, g2, g1, g3, PSMAPI, g2}
	for i, g := range order {
		tag := NamedPropertyTag{"PidLidCustom", uint32(0x8100 + i), g, PtypBoolean}
		require.NoError(t, named.AddProperty(tag, true))
	}
	assert.Equal(t, []uuid.UUID{g1, g2, g3}, named.Guids())

	want := map[uuid.UUID]uint16{g1: 3, g2: 4, g3: 5, PSMAPI: 1}
	entries := named.Entries()
	for _, entry := range entries {
		assert.Equal(t, want[entry.Guid], named.GuidIndex(entry))
	}

	require.NoError(t, named.WriteProperties(storage))
	nameid, _ := storage.Storage(NameIDStorage)
	entryStream, _ := nameid.Stream(EntryStream)
	for i, entry := range entries {
		descriptor := utils.DecodeUint32(entryStream[i*8+4 : i*8+8])
		assert.Equal(t, uint32(want[entry.Guid]), descriptor>>1&0x7FFF)
		assert.Equal(t, uint32(i), descriptor>>16)

		mapping, ok := nameid.Stream(named.StreamName(entry))
		require.True(t, ok)
		assert.Contains(t, string(mapping), string(entryStream[i*8+4:i*8+8]))
	}
}

func TestStreamNameDeterministic(t *testing.T) {
	_, named, _ := newRegistry(t)
	require.NoError(t, named.AddProperty(PidNameKeywords, []string{"x"}))
	entry := named.Entries()[0]
	assert.Equal(t, named.StreamName(entry), named.StreamName(entry))
	assert.Equal(t, "__substg1.0_10150102", named.StreamName(entry))
}

func TestCollidingStreamNamesShareAStream(t *testing.T) {
	_, named, storage := newRegistry(t)
	// 0x8106^6 and 0x8119^6 are 0x1F apart
	a := NamedPropertyTag{"PidLidA", 0x8106, PSETIDCommon, PtypBoolean}
	b := NamedPropertyTag{"PidLidB", 0x8119, PSETIDCommon, PtypBoolean}
	require.NoError(t, named.AddProperty(a, true))
	require.NoError(t, named.AddProperty(b, false))

	entries := named.Entries()
	require.Equal(t, named.StreamName(entries[0]), named.StreamName(entries[1]))

	require.NoError(t, named.WriteProperties(storage))
	nameid, _ := storage.Storage(NameIDStorage)
	mapping, ok := nameid.Stream(named.StreamName(entries[0]))
	require.True(t, ok)
	assert.Len(t, mapping, 16)
}

func TestFailedAddLeavesRegistryUntouched(t *testing.T) {
	props, named, _ := newRegistry(t)
	bad := NamedPropertyTag{"PidLidBad", 0x8101, uuid.New(), PtypMultipleBinary}
	err := named.AddProperty(bad, [][]byte{{1}})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Equal(t, 0, named.Len())
	assert.Empty(t, named.Guids())
	assert.Equal(t, 0, props.Len())

	err = named.AddProperty(PidLidFlagRequest, 42)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, 0, named.Len())
}

func TestReAddingKeepsIdentifier(t *testing.T) {
	props, named, _ := newRegistry(t)
	require.NoError(t, named.AddProperty(PidLidFlagRequest, "one"))
	require.NoError(t, named.AddProperty(PidLidLocation, "here"))
	require.NoError(t, named.AddProperty(PidLidFlagRequest, "two"))

	assert.Equal(t, 2, named.Len())
	assert.Len(t, named.Entries(), 2, "no second entry for the same name")
	id, _ := named.PropertyID(PidLidFlagRequest)
	assert.Equal(t, uint16(0x8000), id)
	v, _ := props.Value(id)
	assert.Equal(t, "two", v)
}

func TestWriteWithoutNameIDStoragePanics(t *testing.T) {
	named := NewNamedProperties(NewProperties(TopLevelHeader))
	assert.Panics(t, func() {
		_ = named.WriteProperties(cfb.New())
	})
}
