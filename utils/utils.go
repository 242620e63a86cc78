package utils

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/unicode"
	"gopkg.in/yaml.v2"
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// ReadFile returns the contents of a file at 'path'
func ReadFile(path string) ([]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// UTF16 converts a string into a little endian UTF-16 byte array without a terminator
func UTF16(str string) []byte {
	// invalid UTF-8 is replaced with U+FFFD, the encoder does not fail on it
	bt, _ := utf16le.NewEncoder().Bytes([]byte(str))
	return bt
}

// UniString converts a string into a null terminated unicode string byte array
func UniString(str string) []byte {
	return append(UTF16(str), 0x00, 0x00)
}

// FromUnicode read unicode and convert to a string, dropping any trailing null terminator
func FromUnicode(uni []byte) (string, error) {
	for len(uni) >= 2 && uni[len(uni)-1] == 0x00 && uni[len(uni)-2] == 0x00 {
		uni = uni[:len(uni)-2]
	}
	str, err := utf16le.NewDecoder().Bytes(uni)
	if err != nil {
		return "", err
	}
	return string(str), nil
}

// EncodeNum encode a number as a byte array
func EncodeNum(v interface{}) []byte {
	byteNum := new(bytes.Buffer)
	binary.Write(byteNum, binary.LittleEndian, v)
	return byteNum.Bytes()
}

// DecodeUint64 decode 8 byte value into uint64
func DecodeUint64(num []byte) uint64 {
	var number uint64
	bf := bytes.NewReader(num)
	binary.Read(bf, binary.LittleEndian, &number)
	return number
}

// DecodeUint32 decode 4 byte value into uint32
func DecodeUint32(num []byte) uint32 {
	var number uint32
	bf := bytes.NewReader(num)
	binary.Read(bf, binary.LittleEndian, &number)
	return number
}

// DecodeUint16 decode 2 byte value into uint16
func DecodeUint16(num []byte) uint16 {
	var number uint16
	bf := bytes.NewReader(num)
	binary.Read(bf, binary.LittleEndian, &number)
	return number
}

// ReadYml reads the supplied yaml file and unmarshals the data into out
func ReadYml(yml string, out interface{}) error {
	data, err := os.ReadFile(yml)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// GUIDToByteArray mimics Guid.ToByteArray Method () from .NET
// The example displays the following output:
//
//	Guid: 35918bc9-196d-40ea-9779-889d79b753f0
//	C9 8B 91 35 6D 19 EA 40 97 79 88 9D 79 B7 53 F0
func GUIDToByteArray(guid uuid.UUID) []byte {
	array := make([]byte, 16)
	//first 3 chunks are little endian, the rest is stored as is
	binary.LittleEndian.PutUint32(array[0:4], binary.BigEndian.Uint32(guid[0:4]))
	binary.LittleEndian.PutUint16(array[4:6], binary.BigEndian.Uint16(guid[4:6]))
	binary.LittleEndian.PutUint16(array[6:8], binary.BigEndian.Uint16(guid[6:8]))
	copy(array[8:], guid[8:])
	return array
}

// ByteArrayToGUID is the reverse of GUIDToByteArray
func ByteArrayToGUID(array []byte) (uuid.UUID, error) {
	var guid uuid.UUID
	if len(array) != 16 {
		return guid, fmt.Errorf("invalid GUID length %d", len(array))
	}
	binary.BigEndian.PutUint32(guid[0:4], binary.LittleEndian.Uint32(array[0:4]))
	binary.BigEndian.PutUint16(guid[4:6], binary.LittleEndian.Uint16(array[4:6]))
	binary.BigEndian.PutUint16(guid[6:8], binary.LittleEndian.Uint16(array[6:8]))
	copy(guid[8:], array[8:])
	return guid, nil
}
