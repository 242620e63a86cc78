package cfb_test

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/richardlehane/mscfb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensepost/outmsg/cfb"
)

type readEntry struct {
	path string
	dir  bool
	data []byte
}

// readBack parses a serialized file and keys every entry by its parent storage and name
func readBack(t *testing.T, raw []byte) map[string]readEntry {
	t.Helper()
	doc, err := mscfb.New(bytes.NewReader(raw))
	require.NoError(t, err)

	found := map[string]readEntry{}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		parent := ""
		if len(entry.Path) > 0 {
			parent = entry.Path[len(entry.Path)-1]
		}
		key := parent + "/" + entry.Name
		re := readEntry{path: key, dir: entry.FileInfo().IsDir()}
		if !re.dir {
			re.data, err = io.ReadAll(entry)
			require.NoError(t, err)
		}
		found[key] = re
	}
	return found
}

func TestAddStream(t *testing.T) {
	root := cfb.New()
	assert.Equal(t, cfb.RootName, root.Name())

	require.NoError(t, root.AddStream("stream", []byte{1, 2, 3}))
	data, ok := root.Stream("STREAM")
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data)

	t.Run("replace keeps a single stream", func(t *testing.T) {
		require.NoError(t, root.AddStream("Stream", []byte{4}))
		assert.Len(t, root.Streams(), 1)
		data, _ := root.Stream("stream")
		assert.Equal(t, []byte{4}, data)
	})

	t.Run("names are validated", func(t *testing.T) {
		assert.ErrorIs(t, root.AddStream("", nil), cfb.ErrInvalidName)
		assert.ErrorIs(t, root.AddStream(strings.Repeat("a", 32), nil), cfb.ErrInvalidName)
		assert.ErrorIs(t, root.AddStream("a/b", nil), cfb.ErrInvalidName)
		assert.NoError(t, root.AddStream(strings.Repeat("a", 31), nil))
	})

	t.Run("kinds do not share names", func(t *testing.T) {
		_, err := root.AddStorage("stream")
		assert.ErrorIs(t, err, cfb.ErrExists)

		st, err := root.AddStorage("child")
		require.NoError(t, err)
		again, err := root.AddStorage("CHILD")
		require.NoError(t, err)
		assert.Same(t, st, again)
		assert.ErrorIs(t, root.AddStream("child", nil), cfb.ErrExists)
	})
}

func TestWriteToReadBack(t *testing.T) {
	root := cfb.New()
	small := []byte("a small stream that lives in the mini stream")
	large := bytes.Repeat([]byte{0xAB, 0xCD}, 5000)
	require.NoError(t, root.AddStream("__properties_version1.0", small))
	require.NoError(t, root.AddStream("big", large))
	require.NoError(t, root.AddStream("empty", nil))
	sub, err := root.AddStorage("__nameid_version1.0")
	require.NoError(t, err)
	require.NoError(t, sub.AddStream("__substg1.0_00020102", make([]byte, 16)))
	require.NoError(t, sub.AddStream("__substg1.0_00030102", []byte{1, 2, 3, 4, 5, 6, 7, 8}))

	buf := new(bytes.Buffer)
	n, err := root.WriteTo(buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, 0, buf.Len()%512)
	assert.Equal(t, []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, buf.Bytes()[:8])

	found := readBack(t, buf.Bytes())
	var props, big readEntry
	for _, e := range found {
		switch {
		case strings.HasSuffix(e.path, "/__properties_version1.0"):
			props = e
		case strings.HasSuffix(e.path, "/big"):
			big = e
		}
	}
	assert.Equal(t, small, props.data)
	assert.Equal(t, large, big.data)

	nameid, ok := found["__nameid_version1.0/__substg1.0_00030102"]
	require.True(t, ok, "nested stream should be found under its storage: %v", keys(found))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, nameid.data)
	guids, ok := found["__nameid_version1.0/__substg1.0_00020102"]
	require.True(t, ok)
	assert.Len(t, guids.data, 16)
}

func TestWriteToManyEntries(t *testing.T) {
	root := cfb.New()
	for i := 0; i < 150; i++ {
		st, err := root.AddStorage(fmt.Sprintf("__recip_version1.0_#%08X", i))
		require.NoError(t, err)
		require.NoError(t, st.AddStream("__properties_version1.0", []byte(fmt.Sprintf("recipient %d", i))))
	}

	buf := new(bytes.Buffer)
	_, err := root.WriteTo(buf)
	require.NoError(t, err)

	found := readBack(t, buf.Bytes())
	for i := 0; i < 150; i++ {
		e, ok := found[fmt.Sprintf("__recip_version1.0_#%08X/__properties_version1.0", i)]
		require.True(t, ok, "recipient %d", i)
		assert.Equal(t, fmt.Sprintf("recipient %d", i), string(e.data))
	}
}

func TestWriteToNeedsDifat(t *testing.T) {
	//more than 109 FAT sectors do not fit in the header
	root := cfb.New()
	large := bytes.Repeat([]byte("0123456789abcdef"), 8*1024*1024/16)
	require.NoError(t, root.AddStream("attachment", large))

	buf := new(bytes.Buffer)
	_, err := root.WriteTo(buf)
	require.NoError(t, err)

	found := readBack(t, buf.Bytes())
	var got []byte
	for _, e := range found {
		if strings.HasSuffix(e.path, "/attachment") {
			got = e.data
		}
	}
	assert.True(t, bytes.Equal(large, got))
}

func keys(m map[string]readEntry) []string {
	var out []string
	for k := range m {
		out = append(out, k)
	}
	return out
}
