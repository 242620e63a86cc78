package msg

import (
	"bufio"
	"regexp"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"

	"github.com/sensepost/outmsg/mapi"
	"github.com/sensepost/outmsg/utils"
)

//Email an IPM.Note message
type Email struct {
	*Message

	Sender       Address
	Representing Address
	Subject      string
	BodyText     string
	BodyHTML     string
	SentOn       time.Time
	ReceivedOn   time.Time

	InternetMessageID string
	InReplyToID       string
	References        string
	// TransportHeaders is the raw RFC 2822 header block, its fields override the ones above
	TransportHeaders string

	Categories      []string
	Draft           bool
	Read            bool
	ReadReceipt     bool
	DeliveryReceipt bool
	FlagRequest     string
	ReminderTime    time.Time
	AccountName     string
}

// NewEmail creates an e-mail, a draft when draft is set
func NewEmail(sender Address, subject string, draft bool) *Email {
	e := &Email{Message: NewMessage(ClassNote), Sender: sender, Subject: subject, Draft: draft}
	e.populate = e.writeProperties
	return e
}

// prefixes such as RE: and FW: are at most three characters followed by a colon and a space
var subjectPrefix = regexp.MustCompile(`^(\D{1,3}:\s)(.*)$`)

// SplitSubject separates the prefix from the normalized subject
func SplitSubject(subject string) (prefix, normalized string) {
	if m := subjectPrefix.FindStringSubmatch(subject); m != nil {
		return m[1], m[2]
	}
	return "", subject
}

func (e *Email) writeProperties() error {
	if e.IconIndex == 0 {
		switch {
		case e.Draft:
			e.IconIndex = IconUnsentMail
		case e.Read:
			e.IconIndex = IconReadMail
		default:
			e.IconIndex = IconUnreadMail
		}
	}
	var flags uint32
	switch {
	case e.Draft:
		flags |= mapi.MsgFlagUnsent
	case e.Read:
		flags |= mapi.MsgFlagRead
	}
	if len(e.Attachments) > 0 {
		flags |= mapi.MsgFlagHasAttach
	}

	values := []defaultProperty{
		{mapi.PidTagMessageFlags, flags, nil},
		{mapi.PidTagReadReceiptRequested, e.ReadReceipt, nil},
		{mapi.PidTagOriginatorDeliveryReportRequested, e.DeliveryReceipt, nil},
	}
	values = append(values, subjectProperties(e.Subject)...)
	values = append(values, bodyProperties(e.BodyText, e.BodyHTML)...)
	values = append(values, addressProperties(e.Sender, senderTags)...)
	if e.Representing.IsZero() {
		values = append(values, addressProperties(e.Sender, representingTags)...)
	} else {
		values = append(values, addressProperties(e.Representing, representingTags)...)
	}
	if !e.SentOn.IsZero() {
		values = append(values, defaultProperty{mapi.PidTagClientSubmitTime, e.SentOn.UTC(), nil})
	}
	if !e.ReceivedOn.IsZero() {
		values = append(values, defaultProperty{mapi.PidTagMessageDeliveryTime, e.ReceivedOn.UTC(), nil})
	}
	for _, v := range []struct {
		tag   mapi.PropertyTag
		value string
	}{
		{mapi.PidTagInternetMessageID, e.InternetMessageID},
		{mapi.PidTagInReplyToID, e.InReplyToID},
		{mapi.PidTagInternetReferences, e.References},
		{mapi.PidTagTransportMessageHeaders, e.TransportHeaders},
	} {
		if v.value != "" {
			values = append(values, defaultProperty{v.tag, v.value, nil})
		}
	}
	if e.FlagRequest != "" {
		values = append(values, defaultProperty{mapi.PidTagFlagStatus, flagStatusFlagged, nil})
	}
	for _, v := range values {
		if err := e.setDefault(v.tag, v.value, v.flags...); err != nil {
			return err
		}
	}

	var named []namedDefault
	if len(e.Categories) > 0 {
		named = append(named, namedDefault{mapi.PidNameKeywords, e.Categories})
	}
	if e.FlagRequest != "" {
		named = append(named, namedDefault{mapi.PidLidFlagRequest, e.FlagRequest})
	}
	if !e.ReminderTime.IsZero() {
		named = append(named,
			namedDefault{mapi.PidLidReminderSet, true},
			namedDefault{mapi.PidLidReminderTime, e.ReminderTime.UTC()},
			namedDefault{mapi.PidLidReminderSignalTime, e.ReminderTime.UTC()})
	}
	if e.AccountName != "" {
		named = append(named, namedDefault{mapi.PidLidInternetAccountName, e.AccountName})
	}
	for _, v := range named {
		if err := e.setNamedDefault(v.tag, v.value); err != nil {
			return err
		}
	}

	return e.applyTransportHeaders()
}

// applyTransportHeaders overrides the defaults with what the raw headers say
func (e *Email) applyTransportHeaders() error {
	if strings.TrimSpace(e.TransportHeaders) == "" {
		return nil
	}
	raw := strings.TrimRight(e.TransportHeaders, "\r\n") + "\r\n\r\n"
	h, err := textproto.ReadHeader(bufio.NewReader(strings.NewReader(raw)))
	if err != nil {
		utils.Warning.Printf("Ignoring unparsable transport headers: %s\n", err)
		return nil
	}
	header := mail.Header{Header: message.Header{Header: h}}

	if id, err := header.MessageID(); err == nil && id != "" {
		if err := e.props.AddOrReplaceProperty(mapi.PidTagInternetMessageID, "<"+id+">"); err != nil {
			return err
		}
	}
	if ids, err := header.MsgIDList("In-Reply-To"); err == nil && len(ids) > 0 {
		if err := e.props.AddOrReplaceProperty(mapi.PidTagInReplyToID, "<"+ids[0]+">"); err != nil {
			return err
		}
	}
	if refs := header.Get("References"); refs != "" {
		if err := e.props.AddOrReplaceProperty(mapi.PidTagInternetReferences, refs); err != nil {
			return err
		}
	}
	if date, err := header.Date(); err == nil && !date.IsZero() {
		if err := e.props.AddOrReplaceProperty(mapi.PidTagClientSubmitTime, date.UTC()); err != nil {
			return err
		}
	}
	if importance, err := ParseImportance(header.Get("Importance")); err == nil && header.Get("Importance") != "" {
		if err := e.props.AddOrReplaceProperty(mapi.PidTagImportance, int32(importance)); err != nil {
			return err
		}
	}
	return nil
}

// PidTagFlagStatus value of a flagged message
const flagStatusFlagged = 0x00000002

type addressTags struct {
	name, email, addressType, smtp, entryID, searchKey mapi.PropertyTag
}

var senderTags = addressTags{
	mapi.PidTagSenderName, mapi.PidTagSenderEmailAddress, mapi.PidTagSenderAddressType,
	mapi.PidTagSenderSMTPAddress, mapi.PidTagSenderEntryID, mapi.PidTagSenderSearchKey,
}

var representingTags = addressTags{
	mapi.PidTagSentRepresentingName, mapi.PidTagSentRepresentingEmailAddress, mapi.PidTagSentRepresentingAddressType,
	mapi.PidTagSentRepresentingSMTPAddress, mapi.PidTagSentRepresentingEntryID, mapi.PidTagSentRepresentingSearchKey,
}

func addressProperties(a Address, tags addressTags) []defaultProperty {
	if a.IsZero() {
		return nil
	}
	addressType := a.addressType()
	values := []defaultProperty{
		{tags.name, a.displayName(), nil},
		{tags.email, a.Email, nil},
		{tags.addressType, addressType, nil},
		{tags.entryID, mapi.OneOffEntryID(a.displayName(), addressType, a.Email), nil},
		{tags.searchKey, mapi.SearchKey(addressType, a.Email), nil},
	}
	if addressType == mapi.DefaultAddressType {
		values = append(values, defaultProperty{tags.smtp, a.Email, nil})
	}
	return values
}

func subjectProperties(subject string) []defaultProperty {
	prefix, normalized := SplitSubject(subject)
	return []defaultProperty{
		{mapi.PidTagSubject, subject, nil},
		{mapi.PidTagSubjectPrefix, prefix, nil},
		{mapi.PidTagNormalizedSubject, normalized, nil},
		{mapi.PidTagConversationTopic, normalized, nil},
	}
}

func bodyProperties(text, html string) []defaultProperty {
	var values []defaultProperty
	native := mapi.NativeBodyUndefined
	if text != "" {
		values = append(values, defaultProperty{mapi.PidTagBody, text, nil})
		native = mapi.NativeBodyPlainText
	}
	if html != "" {
		values = append(values,
			defaultProperty{mapi.PidTagHTML, []byte(html), nil},
			defaultProperty{mapi.PidTagInternetCodepage, utf8Codepage, nil})
		native = mapi.NativeBodyHTML
	}
	return append(values, defaultProperty{mapi.PidTagNativeBody, native, nil})
}

// the HTML body is stored as UTF-8
const utf8Codepage = 65001
