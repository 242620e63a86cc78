package msg

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-message/textproto"

	"github.com/sensepost/outmsg/utils"
)

// FromEML converts an RFC 2822 message into an e-mail. The raw header block is kept as the
// transport headers so Message-ID, In-Reply-To, References and Date come from the headers.
func FromEML(r io.Reader) (*Email, error) {
	mr, err := mail.CreateReader(r)
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("reading eml: %w", err)
	}
	defer mr.Close()

	header := mr.Header
	e := NewEmail(Address{}, "", false)
	e.Read = true

	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		e.Sender = Address{Name: from[0].Name, Email: from[0].Address}
	}
	if sender, err := header.AddressList("Sender"); err == nil && len(sender) > 0 && !e.Sender.IsZero() {
		// mail sent by Sender on behalf of From
		e.Representing = e.Sender
		e.Sender = Address{Name: sender[0].Name, Email: sender[0].Address}
	}
	for _, field := range []struct {
		key  string
		kind RecipientType
	}{{"To", RecipientTo}, {"Cc", RecipientCc}, {"Bcc", RecipientBcc}} {
		list, err := header.AddressList(field.key)
		if err != nil {
			utils.Warning.Printf("Skipping %s: %s\n", field.key, err)
			continue
		}
		for _, a := range list {
			if err := e.AddRecipient(a.Address, a.Name, field.kind); err != nil {
				return nil, err
			}
		}
	}
	if e.Subject, err = header.Subject(); err != nil {
		e.Subject = header.Get("Subject")
	}
	if date, err := header.Date(); err == nil {
		e.SentOn = date
		e.ReceivedOn = date
	}
	if importance, err := ParseImportance(header.Get("Importance")); err == nil {
		e.Importance = importance
	}
	if keywords := header.Get("Keywords"); keywords != "" {
		for _, k := range strings.Split(keywords, ",") {
			if k = strings.TrimSpace(k); k != "" {
				e.Categories = append(e.Categories, k)
			}
		}
	}
	var raw bytes.Buffer
	if err := textproto.WriteHeader(&raw, header.Header.Header); err == nil {
		e.TransportHeaders = raw.String()
	}

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			return nil, fmt.Errorf("reading eml part: %w", err)
		}
		if part == nil {
			continue
		}
		body, err := io.ReadAll(part.Body)
		if err != nil {
			return nil, fmt.Errorf("reading eml part: %w", err)
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			contentType, _, _ := h.ContentType()
			contentID := strings.Trim(h.Get("Content-Id"), "<> ")
			switch {
			case contentType == "text/plain" && e.BodyText == "":
				e.BodyText = string(body)
			case contentType == "text/html" && e.BodyHTML == "":
				e.BodyHTML = string(body)
			case contentID != "":
				name := contentID
				if _, params, err := h.ContentType(); err == nil && params["name"] != "" {
					name = params["name"]
				}
				a, err := e.AddInlineAttachment(name, body, contentID)
				if err != nil {
					return nil, err
				}
				a.MimeType = contentType
			}
		case *mail.AttachmentHeader:
			filename, _ := h.Filename()
			if filename == "" {
				filename = "attachment"
			}
			a, err := e.AddAttachment(filename, body)
			if err != nil {
				return nil, err
			}
			if contentType, _, err := h.ContentType(); err == nil {
				a.MimeType = contentType
			}
		}
	}
	utils.Trace.Printf("Imported eml %q with %d attachments\n", e.Subject, len(e.Attachments))
	return e, nil
}
