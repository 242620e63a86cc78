package utils_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensepost/outmsg/utils"
)

func TestGUIDToByteArray(t *testing.T) {
	guid := uuid.MustParse("35918bc9-196d-40ea-9779-889d79b753f0")
	expected := []byte{0xC9, 0x8B, 0x91, 0x35, 0x6D, 0x19, 0xEA, 0x40, 0x97, 0x79, 0x88, 0x9D, 0x79, 0xB7, 0x53, 0xF0}

	array := utils.GUIDToByteArray(guid)
	assert.Equal(t, expected, array)

	back, err := utils.ByteArrayToGUID(array)
	require.NoError(t, err)
	assert.Equal(t, guid, back)

	_, err = utils.ByteArrayToGUID(array[:15])
	assert.Error(t, err)
}

func TestUniString(t *testing.T) {
	assert.Equal(t, []byte{'I', 0, 'P', 0, 'M', 0, 0, 0}, utils.UniString("IPM"))
	assert.Equal(t, []byte{'I', 0, 'P', 0, 'M', 0}, utils.UTF16("IPM"))
	// outside the BMP takes a surrogate pair
	assert.Len(t, utils.UTF16("\U0001F600"), 4)

	str, err := utils.FromUnicode(utils.UniString("héllo"))
	require.NoError(t, err)
	assert.Equal(t, "héllo", str)
}

func TestEncodeNum(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x02, 0x00, 0x00}, utils.EncodeNum(uint32(0x0201)))
	assert.Equal(t, uint32(0x0201), utils.DecodeUint32([]byte{0x01, 0x02, 0x00, 0x00}))
	assert.Equal(t, uint16(0xFFFE), utils.DecodeUint16([]byte{0xFE, 0xFF}))
	assert.Equal(t, uint64(1), utils.DecodeUint64([]byte{1, 0, 0, 0, 0, 0, 0, 0}))
}

func TestReadYml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("subject: hello\nto:\n  - a@example.com\n"), 0600))

	var out struct {
		Subject string   `yaml:"subject"`
		To      []string `yaml:"to"`
	}
	require.NoError(t, utils.ReadYml(path, &out))
	assert.Equal(t, "hello", out.Subject)
	assert.Equal(t, []string{"a@example.com"}, out.To)

	assert.Error(t, utils.ReadYml(filepath.Join(t.TempDir(), "missing.yml"), &out))
}

func TestConfigMerge(t *testing.T) {
	config := utils.Config{From: "jane@example.com", Culture: "en-US", Reminder: 15}
	config.Merge(utils.YamlConfig{Culture: "nl-NL", Account: "work"})
	assert.Equal(t, utils.Config{From: "jane@example.com", Culture: "nl-NL", Account: "work", Reminder: 15}, config)
}

func TestVerbosity(t *testing.T) {
	var out, errOut bytes.Buffer
	utils.Verbosity(false, false, &out, &errOut)
	utils.Trace.Println("trace")
	utils.Warning.Println("warning")
	utils.Info.Println("info")
	assert.Equal(t, "[+] info\n", out.String())

	out.Reset()
	utils.Verbosity(true, false, &out, &errOut)
	utils.Trace.Println("trace")
	utils.Warning.Println("warning")
	assert.Equal(t, "[*] trace\n", out.String())

	out.Reset()
	utils.Verbosity(false, true, &out, &errOut)
	utils.Warning.Println("warning")
	assert.Equal(t, "[WARNING] warning\n", out.String())

	utils.Error.Println("failed")
	assert.Contains(t, errOut.String(), "ERROR: ")
	utils.Init(io.Discard, io.Discard, io.Discard, io.Discard)
}
