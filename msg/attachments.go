package msg

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/sensepost/outmsg/mapi"
	"github.com/sensepost/outmsg/utils"
)

//Attachment a file stored by value in the message
type Attachment struct {
	FileName  string
	Data      []byte
	MimeType  string
	ContentID string
	Inline    bool
	// RenderingPosition is the character offset in the body, -1 when it is not rendered in the body
	RenderingPosition int32
}

// AddAttachment attaches data under fileName, the content type is guessed from the extension
func (m *Message) AddAttachment(fileName string, data []byte) (*Attachment, error) {
	if m.closed {
		return nil, ErrClosed
	}
	a := &Attachment{
		FileName:          filepath.Base(fileName),
		Data:              data,
		MimeType:          mime.TypeByExtension(filepath.Ext(fileName)),
		RenderingPosition: -1,
	}
	m.Attachments = append(m.Attachments, a)
	return a, nil
}

// AddInlineAttachment attaches data referenced from the HTML body as cid:contentID
func (m *Message) AddInlineAttachment(fileName string, data []byte, contentID string) (*Attachment, error) {
	a, err := m.AddAttachment(fileName, data)
	if err != nil {
		return nil, err
	}
	a.Inline = true
	a.ContentID = strings.Trim(contentID, "<>")
	return a, nil
}

// AddAttachmentFile reads path and attaches it
func (m *Message) AddAttachmentFile(path string) (*Attachment, error) {
	data, err := utils.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return m.AddAttachment(path, data)
}

// shortName returns the 8.3 form of a file name, NAME~1.EXT
func shortName(fileName string) string {
	ext := filepath.Ext(fileName)
	base := strings.ToUpper(strings.TrimSuffix(fileName, ext))
	base = strings.Map(func(r rune) rune {
		if r == ' ' || r == '.' || r > 0x7F {
			return -1
		}
		return r
	}, base)
	ext = strings.ToUpper(ext)
	if len(ext) > 4 {
		ext = ext[:4]
	}
	if len(base) <= 8 && len(fileName) == len(base)+len(ext) {
		return base + ext
	}
	if len(base) > 6 {
		base = base[:6]
	}
	return base + "~1" + ext
}

// writeAttachments creates one __attach_version1.0_ storage per attachment and returns the bytes used
func (m *Message) writeAttachments() (int64, error) {
	var size int64
	for i, a := range m.Attachments {
		props := mapi.NewProperties(mapi.SubObjectHeader)
		if err := a.properties(props, i, m.Created); err != nil {
			return 0, fmt.Errorf("attachment %s: %w", a.FileName, err)
		}
		storage, err := m.storage.AddStorage(fmt.Sprintf(mapi.AttachmentStorageFmt, i))
		if err != nil {
			return 0, err
		}
		n, err := props.WriteProperties(storage, -1)
		if err != nil {
			return 0, err
		}
		size += n
	}
	m.props.AttachmentCount = uint32(len(m.Attachments))
	m.props.NextAttachmentID = uint32(len(m.Attachments))
	return size, nil
}

func (a *Attachment) properties(props *mapi.Properties, number int, created time.Time) error {
	mimeType := a.MimeType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	values := []defaultProperty{
		{mapi.PidTagAttachNumber, number, nil},
		{mapi.PidTagAttachMethod, mapi.AttachByValue, nil},
		{mapi.PidTagAttachDataBinary, a.Data, nil},
		{mapi.PidTagAttachFilename, shortName(a.FileName), nil},
		{mapi.PidTagAttachLongFilename, a.FileName, nil},
		{mapi.PidTagAttachExtension, filepath.Ext(a.FileName), nil},
		{mapi.PidTagAttachMimeTag, mimeType, nil},
		{mapi.PidTagDisplayName, a.FileName, nil},
		{mapi.PidTagAttachSize, len(a.Data), nil},
		{mapi.PidTagRenderingPosition, a.RenderingPosition, nil},
		{mapi.PidTagAttachmentHidden, a.Inline, nil},
		{mapi.PidTagCreationTime, created, nil},
		{mapi.PidTagLastModificationTime, created, nil},
	}
	if a.ContentID != "" {
		values = append(values, defaultProperty{mapi.PidTagAttachContentID, a.ContentID, nil})
	}
	if a.Inline {
		values = append(values, defaultProperty{mapi.PidTagAttachFlags, attachRenderedInBody, nil})
	}
	for _, v := range values {
		if err := props.AddProperty(v.tag, v.value, v.flags...); err != nil {
			return err
		}
	}
	return nil
}

// PidTagAttachFlags bit for attachments shown in the HTML body
const attachRenderedInBody = 0x00000004
