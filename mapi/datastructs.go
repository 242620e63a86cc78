package mapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrUnsupportedType is returned for property types that can not be written to a .msg file
	ErrUnsupportedType = errors.New("unsupported property type")
	// ErrTypeMismatch is returned when a value does not fit the declared property type
	ErrTypeMismatch = errors.New("value does not match property type")
	// ErrParse is returned when text can not be converted to the declared property type
	ErrParse = errors.New("can not parse property value")
)

//PropertyType is the PropertyType half of a property tag
type PropertyType uint16

//PropertyTag struct
type PropertyTag struct {
	PropertyType PropertyType
	PropertyID   uint16
}

//TaggedPropertyValue a property with its attribute flags and encoded value
type TaggedPropertyValue struct {
	PropertyTag   PropertyTag
	Flags         uint32
	PropertyValue *EncodedValue
}

//PropertyKind how a named property is identified
type PropertyKind uint8

//Named property kinds, the values are the kind bit of the name-id entry records
const (
	KindLid  PropertyKind = 0x00
	KindName PropertyKind = 0x01
)

// catalog prefixes that select the kind of a named property
const (
	namePrefix = "PidName"
	lidPrefix  = "PidLid"
)

//NamedPropertyTag identifies a named property by property set and either a name or a numeric id (lid)
type NamedPropertyTag struct {
	Name string
	ID   uint32
	Guid uuid.UUID
	Type PropertyType
}

//NamedProperty is the registry's record of one named property
type NamedProperty struct {
	NameIdentifier uint32
	Guid           uuid.UUID
	Kind           PropertyKind
	Name           string
	NameSize       uint32
}

// PropertyAdder is the part of a property collection the named property registry writes through
type PropertyAdder interface {
	AddProperty(tag PropertyTag, value interface{}, flags ...uint32) error
}

// Tag returns the 32 bit property tag, id in the high word
func (tag PropertyTag) Tag() uint32 {
	return uint32(tag.PropertyID)<<16 | uint32(tag.PropertyType)
}

// StreamName of the __substg1.0_ stream holding a variable length value
func (tag PropertyTag) StreamName() string {
	return fmt.Sprintf(SubStorageStreamFmt, tag.PropertyID, uint16(tag.PropertyType))
}

func (tag PropertyTag) String() string {
	return fmt.Sprintf("0x%08X", tag.Tag())
}

// IsMultiValued reports whether the type holds a list of values
func (t PropertyType) IsMultiValued() bool {
	return t&ptypMultipleFlag != 0
}

// Base strips the multi-valued flag
func (t PropertyType) Base() PropertyType {
	return t &^ ptypMultipleFlag
}

func (t PropertyType) String() string {
	if name, ok := propertyTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("0x%04X", uint16(t))
}

var propertyTypeNames = map[PropertyType]string{
	PtypUnspecified:          "PtypUnspecified",
	PtypNull:                 "PtypNull",
	PtypInteger16:            "PtypInteger16",
	PtypInteger32:            "PtypInteger32",
	PtypFloating32:           "PtypFloating32",
	PtypFloating64:           "PtypFloating64",
	PtypCurrency:             "PtypCurrency",
	PtypFloatingTime:         "PtypFloatingTime",
	PtypErrorCode:            "PtypErrorCode",
	PtypBoolean:              "PtypBoolean",
	PtypObject:               "PtypObject",
	PtypInteger64:            "PtypInteger64",
	PtypString8:              "PtypString8",
	PtypString:               "PtypString",
	PtypTime:                 "PtypTime",
	PtypGUID:                 "PtypGuid",
	PtypServerID:             "PtypServerId",
	PtypRestriction:          "PtypRestriction",
	PtypRuleAction:           "PtypRuleAction",
	PtypBinary:               "PtypBinary",
	PtypMultipleInteger16:    "PtypMultipleInteger16",
	PtypMultipleInteger32:    "PtypMultipleInteger32",
	PtypMultipleFloating32:   "PtypMultipleFloating32",
	PtypMultipleFloating64:   "PtypMultipleFloating64",
	PtypMultipleCurrency:     "PtypMultipleCurrency",
	PtypMultipleFloatingTime: "PtypMultipleFloatingTime",
	PtypMultipleInteger64:    "PtypMultipleInteger64",
	PtypMultipleString8:      "PtypMultipleString8",
	PtypMultipleString:       "PtypMultipleString",
	PtypMultipleTime:         "PtypMultipleTime",
	PtypMultipleGUID:         "PtypMultipleGuid",
	PtypMultipleBinary:       "PtypMultipleBinary",
}

// short names accepted in message definitions next to the Ptyp names
var propertyTypeAliases = map[string]PropertyType{
	"int16":    PtypInteger16,
	"short":    PtypInteger16,
	"int32":    PtypInteger32,
	"long":     PtypInteger32,
	"int64":    PtypInteger64,
	"float":    PtypFloating32,
	"double":   PtypFloating64,
	"currency": PtypCurrency,
	"apptime":  PtypFloatingTime,
	"error":    PtypErrorCode,
	"bool":     PtypBoolean,
	"boolean":  PtypBoolean,
	"string":   PtypString,
	"unicode":  PtypString,
	"string8":  PtypString8,
	"time":     PtypTime,
	"systime":  PtypTime,
	"guid":     PtypGUID,
	"binary":   PtypBinary,
	"strings":  PtypMultipleString,
}

// PropertyTypeByName looks up a type by its Ptyp name (case insensitive) or a short alias such as "string"
func PropertyTypeByName(name string) (PropertyType, error) {
	if t, ok := propertyTypeAliases[strings.ToLower(name)]; ok {
		return t, nil
	}
	for t, n := range propertyTypeNames {
		if strings.EqualFold(n, name) {
			return t, nil
		}
	}
	return PtypUnspecified, fmt.Errorf("%w: unknown type name %q", ErrUnsupportedType, name)
}

// Kind infers the kind of a named property from its catalog prefix
func (tag NamedPropertyTag) Kind() PropertyKind {
	if strings.HasPrefix(tag.Name, namePrefix) {
		return KindName
	}
	return KindLid
}

// ShortName strips the catalog prefix, PidNameKeywords becomes Keywords
func (tag NamedPropertyTag) ShortName() string {
	if strings.HasPrefix(tag.Name, namePrefix) {
		return strings.TrimPrefix(tag.Name, namePrefix)
	}
	return strings.TrimPrefix(tag.Name, lidPrefix)
}

func (kind PropertyKind) String() string {
	if kind == KindName {
		return "name"
	}
	return "lid"
}
