package msg

import (
	"fmt"
	"strings"

	"github.com/sensepost/outmsg/mapi"
)

//Address a mail user: display name, address and address type (SMTP when empty)
type Address struct {
	Name        string
	Email       string
	AddressType string
}

// IsZero reports whether no address was given
func (a Address) IsZero() bool {
	return a.Email == "" && a.Name == ""
}

func (a Address) addressType() string {
	if a.AddressType == "" {
		return mapi.DefaultAddressType
	}
	return strings.ToUpper(a.AddressType)
}

func (a Address) displayName() string {
	if a.Name == "" {
		return a.Email
	}
	return a.Name
}

//Recipient of a message
type Recipient struct {
	Address
	Type RecipientType
}

// AddRecipient adds a To, Cc or Bcc recipient
func (m *Message) AddRecipient(email, name string, kind RecipientType) error {
	if m.closed {
		return ErrClosed
	}
	if err := kind.check(); err != nil {
		return err
	}
	m.Recipients = append(m.Recipients, Recipient{Address{Name: name, Email: email}, kind})
	return nil
}

// AddTo adds a To recipient
func (m *Message) AddTo(email, name string) error {
	return m.AddRecipient(email, name, RecipientTo)
}

// AddCc adds a Cc recipient
func (m *Message) AddCc(email, name string) error {
	return m.AddRecipient(email, name, RecipientCc)
}

// AddBcc adds a Bcc recipient
func (m *Message) AddBcc(email, name string) error {
	return m.AddRecipient(email, name, RecipientBcc)
}

// displayNames joins the names of one recipient type the way PidTagDisplayTo expects
func (m *Message) displayNames(kind RecipientType) string {
	var names []string
	for _, r := range m.Recipients {
		if r.Type == kind {
			names = append(names, r.displayName())
		}
	}
	return strings.Join(names, "; ")
}

// writeRecipients creates one __recip_version1.0_ storage per recipient and returns the bytes used
func (m *Message) writeRecipients() (int64, error) {
	for _, tag := range []struct {
		tag  mapi.PropertyTag
		kind RecipientType
	}{{mapi.PidTagDisplayTo, RecipientTo}, {mapi.PidTagDisplayCc, RecipientCc}, {mapi.PidTagDisplayBcc, RecipientBcc}} {
		if err := m.setDefault(tag.tag, m.displayNames(tag.kind), readOnly...); err != nil {
			return 0, err
		}
	}

	var size int64
	for i, r := range m.Recipients {
		if err := r.Type.check(); err != nil {
			return 0, err
		}
		props := mapi.NewProperties(mapi.SubObjectHeader)
		if err := r.properties(props, i); err != nil {
			return 0, fmt.Errorf("recipient %s: %w", r.Email, err)
		}
		storage, err := m.storage.AddStorage(fmt.Sprintf(mapi.RecipientStorageFmt, i))
		if err != nil {
			return 0, err
		}
		n, err := props.WriteProperties(storage, -1)
		if err != nil {
			return 0, err
		}
		size += n
	}
	m.props.RecipientCount = uint32(len(m.Recipients))
	m.props.NextRecipientID = uint32(len(m.Recipients))
	return size, nil
}

func (r Recipient) properties(props *mapi.Properties, row int) error {
	addressType := r.addressType()
	values := []defaultProperty{
		{mapi.PidTagRowid, row, nil},
		{mapi.PidTagRecipientType, int32(r.Type), nil},
		{mapi.PidTagDisplayName, r.displayName(), nil},
		{mapi.PidTagAddressType, addressType, nil},
		{mapi.PidTagEmailAddress, r.Email, nil},
		{mapi.PidTagEntryID, mapi.OneOffEntryID(r.displayName(), addressType, r.Email), nil},
		{mapi.PidTagSearchKey, mapi.SearchKey(addressType, r.Email), nil},
		{mapi.PidTagObjectType, mapi.ObjectTypeMailUser, nil},
		{mapi.PidTagDisplayType, mapi.DisplayTypeMailUser, nil},
		{mapi.PidTagRecipientFlags, 1, nil},
		{mapi.PidTagResponsibility, false, nil},
		{mapi.PidTagSendRichInfo, false, nil},
	}
	if addressType == mapi.DefaultAddressType {
		values = append(values, defaultProperty{mapi.PidTagSMTPAddress, r.Email, nil})
	}
	for _, v := range values {
		if err := props.AddProperty(v.tag, v.value, v.flags...); err != nil {
			return err
		}
	}
	return nil
}
