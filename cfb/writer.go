package cfb

import (
	"bytes"
	"encoding/binary"
	"io"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"

	"github.com/sensepost/outmsg/utils"
)

// version 3 layout, [MS-CFB]
const (
	sectorSize       = 512
	miniSectorSize   = 64
	miniStreamCutoff = 4096
	dirEntrySize     = 128
	headerSize       = 512
	headerDifatCount = 109
	idsPerSector     = sectorSize / 4
	idsPerDifat      = idsPerSector - 1
)

// special sector ids
const (
	freeSect   = 0xFFFFFFFF
	endOfChain = 0xFFFFFFFE
	fatSect    = 0xFFFFFFFD
	difSect    = 0xFFFFFFFC
	noStream   = 0xFFFFFFFF
)

// directory object types
const (
	typeUnused  = 0x00
	typeStorage = 0x01
	typeStream  = 0x02
	typeRoot    = 0x05
)

const colorBlack = 0x01

var signature = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

type dirEntry struct {
	name    string
	objType byte
	clsid   uuid.UUID
	left    uint32
	right   uint32
	child   uint32
	start   uint32
	size    uint64
	data    []byte
}

// WriteTo serializes the storage as the root of a compound file
func (s *Storage) WriteTo(w io.Writer) (int64, error) {
	entries := s.directory()

	//small streams live in the mini stream, the rest get whole sectors
	var miniStream []byte
	var miniFat []uint32
	var large []*dirEntry
	for _, e := range entries {
		if e.objType != typeStream {
			continue
		}
		e.size = uint64(len(e.data))
		switch {
		case len(e.data) == 0:
			e.start = endOfChain
		case len(e.data) < miniStreamCutoff:
			e.start = uint32(len(miniFat))
			count := sectorCount(len(e.data), miniSectorSize)
			miniFat = append(miniFat, make([]uint32, count)...)
			setChain(miniFat, e.start, count)
			miniStream = append(miniStream, pad(e.data, miniSectorSize)...)
		default:
			large = append(large, e)
		}
	}

	dirSectors := sectorCount(len(entries)*dirEntrySize, sectorSize)
	miniFatSectors := sectorCount(len(miniFat)*4, sectorSize)
	miniStreamSectors := sectorCount(len(miniStream), sectorSize)
	dataSectors := dirSectors + miniFatSectors + miniStreamSectors
	for _, e := range large {
		dataSectors += sectorCount(len(e.data), sectorSize)
	}

	//the FAT has to describe its own sectors and the DIFAT sectors too
	fatSectors, difatSectors := 0, 0
	for {
		fs := sectorCount(dataSectors+fatSectors+difatSectors, idsPerSector)
		ds := 0
		if fs > headerDifatCount {
			ds = sectorCount(fs-headerDifatCount, idsPerDifat)
		}
		if fs == fatSectors && ds == difatSectors {
			break
		}
		fatSectors, difatSectors = fs, ds
	}

	fat := make([]uint32, fatSectors*idsPerSector)
	for i := range fat {
		fat[i] = freeSect
	}
	next := uint32(0)
	for i := 0; i < fatSectors; i++ {
		fat[next] = fatSect
		next++
	}
	difatStart := next
	for i := 0; i < difatSectors; i++ {
		fat[next] = difSect
		next++
	}
	allocate := func(count int) uint32 {
		if count == 0 {
			return endOfChain
		}
		start := next
		setChain(fat, start, count)
		next += uint32(count)
		return start
	}

	dirStart := allocate(dirSectors)
	miniFatStart := allocate(miniFatSectors)
	root := entries[0]
	root.start = allocate(miniStreamSectors)
	root.size = uint64(len(miniStream))
	for _, e := range large {
		e.start = allocate(sectorCount(len(e.data), sectorSize))
	}

	buf := new(bytes.Buffer)
	buf.Grow(headerSize + (fatSectors+difatSectors+dataSectors)*sectorSize)

	//header
	header := make([]byte, headerSize)
	copy(header, signature)
	binary.LittleEndian.PutUint16(header[24:], 0x003E)
	binary.LittleEndian.PutUint16(header[26:], 0x0003)
	binary.LittleEndian.PutUint16(header[28:], 0xFFFE)
	binary.LittleEndian.PutUint16(header[30:], 9)
	binary.LittleEndian.PutUint16(header[32:], 6)
	binary.LittleEndian.PutUint32(header[44:], uint32(fatSectors))
	binary.LittleEndian.PutUint32(header[48:], dirStart)
	binary.LittleEndian.PutUint32(header[56:], miniStreamCutoff)
	binary.LittleEndian.PutUint32(header[60:], miniFatStart)
	binary.LittleEndian.PutUint32(header[64:], uint32(miniFatSectors))
	if difatSectors > 0 {
		binary.LittleEndian.PutUint32(header[68:], difatStart)
	} else {
		binary.LittleEndian.PutUint32(header[68:], endOfChain)
	}
	binary.LittleEndian.PutUint32(header[72:], uint32(difatSectors))
	for i := 0; i < headerDifatCount; i++ {
		id := uint32(freeSect)
		if i < fatSectors {
			id = uint32(i)
		}
		binary.LittleEndian.PutUint32(header[76+i*4:], id)
	}
	buf.Write(header)

	//FAT
	for _, id := range fat {
		binary.Write(buf, binary.LittleEndian, id)
	}

	//DIFAT, 127 FAT sector ids per sector followed by the next DIFAT sector
	for i := 0; i < difatSectors; i++ {
		for j := 0; j < idsPerDifat; j++ {
			id := uint32(freeSect)
			if k := headerDifatCount + i*idsPerDifat + j; k < fatSectors {
				id = uint32(k)
			}
			binary.Write(buf, binary.LittleEndian, id)
		}
		nextDifat := uint32(endOfChain)
		if i+1 < difatSectors {
			nextDifat = difatStart + uint32(i) + 1
		}
		binary.Write(buf, binary.LittleEndian, nextDifat)
	}

	//directory, padded with unused entries
	for i := 0; i < dirSectors*sectorSize/dirEntrySize; i++ {
		if i < len(entries) {
			buf.Write(entries[i].bytes())
		} else {
			buf.Write(unusedEntry())
		}
	}

	//mini FAT
	for i := 0; i < miniFatSectors*idsPerSector; i++ {
		id := uint32(freeSect)
		if i < len(miniFat) {
			id = miniFat[i]
		}
		binary.Write(buf, binary.LittleEndian, id)
	}

	buf.Write(pad(miniStream, sectorSize))
	for _, e := range large {
		buf.Write(pad(e.data, sectorSize))
	}

	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// directory flattens the tree, entry 0 is the root. Siblings form a binary search tree
// ordered the way [MS-CFB] compares names, every node coloured black.
func (s *Storage) directory() []*dirEntry {
	root := &dirEntry{name: RootName, objType: typeRoot, clsid: s.CLSID, left: noStream, right: noStream, child: noStream}
	entries := []*dirEntry{root}

	var walk func(st *Storage, parent *dirEntry)
	walk = func(st *Storage, parent *dirEntry) {
		var ids []uint32
		subdirs := make([]*dirEntry, len(st.storages))
		for i, child := range st.storages {
			subdirs[i] = &dirEntry{name: child.name, objType: typeStorage, clsid: child.CLSID, left: noStream, right: noStream, child: noStream}
			entries = append(entries, subdirs[i])
			ids = append(ids, uint32(len(entries)-1))
		}
		for _, stm := range st.streams {
			entries = append(entries, &dirEntry{name: stm.Name, objType: typeStream, data: stm.Data, left: noStream, right: noStream, child: noStream})
			ids = append(ids, uint32(len(entries)-1))
		}
		sort.SliceStable(ids, func(i, j int) bool {
			return compareNames(entries[ids[i]].name, entries[ids[j]].name) < 0
		})
		parent.child = balance(entries, ids)
		for i, child := range st.storages {
			walk(child, subdirs[i])
		}
	}
	walk(s, root)
	return entries
}

func balance(entries []*dirEntry, ids []uint32) uint32 {
	if len(ids) == 0 {
		return noStream
	}
	mid := len(ids) / 2
	node := ids[mid]
	entries[node].left = balance(entries, ids[:mid])
	entries[node].right = balance(entries, ids[mid+1:])
	return node
}

// compareNames orders by length first, then by the upper cased UTF-16 code units
func compareNames(a, b string) int {
	ua := utf16.Encode([]rune(strings.ToUpper(a)))
	ub := utf16.Encode([]rune(strings.ToUpper(b)))
	if len(ua) != len(ub) {
		return len(ua) - len(ub)
	}
	for i := range ua {
		if ua[i] != ub[i] {
			return int(ua[i]) - int(ub[i])
		}
	}
	return 0
}

func (e *dirEntry) bytes() []byte {
	b := make([]byte, dirEntrySize)
	name := utf16.Encode([]rune(e.name))
	for i, c := range name {
		binary.LittleEndian.PutUint16(b[i*2:], c)
	}
	binary.LittleEndian.PutUint16(b[64:], uint16((len(name)+1)*2))
	b[66] = e.objType
	b[67] = colorBlack
	binary.LittleEndian.PutUint32(b[68:], e.left)
	binary.LittleEndian.PutUint32(b[72:], e.right)
	binary.LittleEndian.PutUint32(b[76:], e.child)
	if e.clsid != uuid.Nil {
		copy(b[80:96], utils.GUIDToByteArray(e.clsid))
	}
	if e.objType == typeStorage {
		return b
	}
	binary.LittleEndian.PutUint32(b[116:], e.start)
	binary.LittleEndian.PutUint64(b[120:], e.size)
	return b
}

func unusedEntry() []byte {
	b := make([]byte, dirEntrySize)
	b[66] = typeUnused
	binary.LittleEndian.PutUint32(b[68:], noStream)
	binary.LittleEndian.PutUint32(b[72:], noStream)
	binary.LittleEndian.PutUint32(b[76:], noStream)
	return b
}

// setChain links count contiguous sectors starting at start
func setChain(table []uint32, start uint32, count int) {
	for i := 0; i < count; i++ {
		id := start + uint32(i)
		table[id] = id + 1
	}
	table[start+uint32(count)-1] = endOfChain
}

func sectorCount(size, sector int) int {
	return (size + sector - 1) / sector
}

func pad(data []byte, size int) []byte {
	if rem := len(data) % size; rem != 0 {
		return append(append([]byte{}, data...), make([]byte, size-rem)...)
	}
	return data
}
