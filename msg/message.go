// Package msg builds Outlook .msg files for e-mails, appointments and posts.
package msg

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/text/language"

	"github.com/sensepost/outmsg/cfb"
	"github.com/sensepost/outmsg/mapi"
	"github.com/sensepost/outmsg/utils"
)

//Message is the part every item type shares: the compound file, its property collections,
//recipients and attachments
type Message struct {
	Class       MessageClass
	Importance  Importance
	Priority    Priority
	Sensitivity Sensitivity
	IconIndex   int32
	Culture     string
	Created     time.Time

	Recipients  []Recipient
	Attachments []*Attachment

	storage *cfb.Storage
	props   *mapi.Properties
	named   *mapi.NamedProperties
	// populate copies the item's fields into properties, called once by Save
	populate func() error
	closed   bool
	saved    bool
}

// NewMessage creates a message of the given class with an empty name-id storage
func NewMessage(class MessageClass) *Message {
	storage := cfb.New()
	// names and empty content are valid, these can not fail
	nameid, _ := storage.AddStorage(mapi.NameIDStorage)
	for _, name := range []string{mapi.GUIDStream, mapi.EntryStream, mapi.StringStream} {
		nameid.AddStream(name, []byte{})
	}
	props := mapi.NewProperties(mapi.TopLevelHeader)
	return &Message{
		Class:      class,
		Importance: ImportanceNormal,
		Priority:   PriorityNormal,
		Created:    time.Now().UTC(),
		storage:    storage,
		props:      props,
		named:      mapi.NewNamedProperties(props),
	}
}

// Properties of the message object
func (m *Message) Properties() *mapi.Properties {
	return m.props
}

// NamedProperties registered on the message
func (m *Message) NamedProperties() *mapi.NamedProperties {
	return m.named
}

// AddProperty stores a property on the message, overriding anything the item type sets for the same tag
func (m *Message) AddProperty(tag mapi.PropertyTag, value interface{}, flags ...uint32) error {
	if m.closed {
		return ErrClosed
	}
	return m.props.AddProperty(tag, value, flags...)
}

// AddNamedProperty stores a named property on the message
func (m *Message) AddNamedProperty(tag mapi.NamedPropertyTag, value interface{}) error {
	if m.closed {
		return ErrClosed
	}
	return m.named.AddProperty(tag, value)
}

// setDefault adds a property unless the caller already set it
func (m *Message) setDefault(tag mapi.PropertyTag, value interface{}, flags ...uint32) error {
	if _, ok := m.props.Get(tag.PropertyID); ok {
		return nil
	}
	return m.props.AddProperty(tag, value, flags...)
}

// setNamedDefault adds a named property unless the caller already set it
func (m *Message) setNamedDefault(tag mapi.NamedPropertyTag, value interface{}) error {
	if _, ok := m.named.PropertyID(tag); ok {
		return nil
	}
	return m.named.AddProperty(tag, value)
}

// Save writes the message as a compound file to w. A message can be saved once.
func (m *Message) Save(w io.Writer) error {
	if m.closed {
		return ErrClosed
	}
	if m.saved {
		return ErrAlreadySaved
	}
	if err := m.build(); err != nil {
		return err
	}
	m.saved = true
	if _, err := m.storage.WriteTo(w); err != nil {
		return fmt.Errorf("writing compound file: %w", err)
	}
	return nil
}

// SaveFile saves the message to path, a partially written file is removed
func (m *Message) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = m.Save(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return err
	}
	utils.Info.Printf("Saved %s to %s\n", m.Class, path)
	return nil
}

// Close releases the compound file, calling it again has no effect
func (m *Message) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	m.storage = nil
	m.props = nil
	m.named = nil
	m.Attachments = nil
	return nil
}

func (m *Message) build() error {
	class, err := m.Class.value()
	if err != nil {
		return err
	}
	for _, check := range []func() error{m.Importance.check, m.Priority.check, m.Sensitivity.check} {
		if err := check(); err != nil {
			return err
		}
	}
	if m.populate != nil {
		if err := m.populate(); err != nil {
			return err
		}
	}

	if err := m.writeMessageProperties(class); err != nil {
		return err
	}

	size, err := m.writeRecipients()
	if err != nil {
		return err
	}
	attachmentSize, err := m.writeAttachments()
	if err != nil {
		return err
	}

	if err := m.named.WriteProperties(m.storage); err != nil {
		return err
	}
	size += attachmentSize + m.props.Size() + 16
	if _, err := m.props.WriteProperties(m.storage, size); err != nil {
		return err
	}
	return nil
}

type defaultProperty struct {
	tag   mapi.PropertyTag
	value interface{}
	flags []uint32
}

type namedDefault struct {
	tag   mapi.NamedPropertyTag
	value interface{}
}

var readOnly = []uint32{mapi.PropAttrReadable}

func (m *Message) writeMessageProperties(class string) error {
	if err := m.props.AddOrReplaceProperty(mapi.PidTagMessageClass, class); err != nil {
		return err
	}
	defaults := []defaultProperty{
		{mapi.PidTagImportance, int32(m.Importance), nil},
		{mapi.PidTagPriority, int32(m.Priority), nil},
		{mapi.PidTagSensitivity, int32(m.Sensitivity), nil},
		{mapi.PidTagStoreSupportMask, uint32(mapi.DefaultStoreSupports), readOnly},
		{mapi.PidTagStoreUnicodeMask, uint32(mapi.DefaultStoreSupports), readOnly},
		{mapi.PidTagAlternateRecipientAllowed, true, readOnly},
		{mapi.PidTagHasAttachments, len(m.Attachments) > 0, readOnly},
		{mapi.PidTagCreationTime, m.Created, nil},
		{mapi.PidTagLastModificationTime, m.Created, nil},
	}
	if m.IconIndex != 0 {
		defaults = append(defaults, defaultProperty{mapi.PidTagIconIndex, m.IconIndex, nil})
	}
	for _, d := range defaults {
		if err := m.setDefault(d.tag, d.value, d.flags...); err != nil {
			return err
		}
	}

	if m.Culture != "" {
		lcid, err := LocaleID(m.Culture)
		if err != nil {
			utils.Warning.Printf("Skipping locale: %s\n", err)
		} else if err := m.setDefault(mapi.PidTagMessageLocaleID, lcid); err != nil {
			return err
		}
	}
	return nil
}

var localeIDs = map[string]uint32{
	"af-ZA": 0x0436,
	"ar-SA": 0x0401,
	"cs-CZ": 0x0405,
	"da-DK": 0x0406,
	"de-DE": 0x0407,
	"el-GR": 0x0408,
	"en-AU": 0x0C09,
	"en-CA": 0x1009,
	"en-GB": 0x0809,
	"en-US": 0x0409,
	"en-ZA": 0x1C09,
	"es-ES": 0x0C0A,
	"es-MX": 0x080A,
	"fi-FI": 0x040B,
	"fr-BE": 0x080C,
	"fr-FR": 0x040C,
	"he-IL": 0x040D,
	"hu-HU": 0x040E,
	"it-IT": 0x0410,
	"ja-JP": 0x0411,
	"ko-KR": 0x0412,
	"nb-NO": 0x0414,
	"nl-BE": 0x0813,
	"nl-NL": 0x0413,
	"pl-PL": 0x0415,
	"pt-BR": 0x0416,
	"pt-PT": 0x0816,
	"ru-RU": 0x0419,
	"sv-SE": 0x041D,
	"tr-TR": 0x041F,
	"uk-UA": 0x0422,
	"zh-CN": 0x0804,
	"zh-TW": 0x0404,
}

// LocaleID maps a culture name such as en-US or nl_nl to its Windows LCID
func LocaleID(culture string) (uint32, error) {
	tag, err := language.Parse(culture)
	if err != nil {
		return 0, fmt.Errorf("culture %q: %w", culture, err)
	}
	if lcid, ok := localeIDs[tag.String()]; ok {
		return lcid, nil
	}
	// a bare language maps to its most likely region, en becomes en-US
	base, _ := tag.Base()
	region, _ := tag.Region()
	if lcid, ok := localeIDs[base.String()+"-"+region.String()]; ok {
		return lcid, nil
	}
	return 0, fmt.Errorf("culture %q: no locale id known", culture)
}
