package msg

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensepost/outmsg/mapi"
)

const sampleEML = "From: Jane Doe <jane@example.com>\r\n" +
	"To: Joe <joe@example.com>, ann@example.com\r\n" +
	"Cc: Bob <bob@example.com>\r\n" +
	"Subject: =?utf-8?q?RE:_h=C3=A9llo?=\r\n" +
	"Date: Mon, 01 Jan 2024 10:00:00 +0200\r\n" +
	"Message-ID: <abc@example.com>\r\n" +
	"Importance: high\r\n" +
	"Keywords: red, blue\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"outer\"\r\n" +
	"\r\n" +
	"--outer\r\n" +
	"Content-Type: multipart/alternative; boundary=\"inner\"\r\n" +
	"\r\n" +
	"--inner\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"plain body\r\n" +
	"--inner\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>html body</p>\r\n" +
	"--inner--\r\n" +
	"--outer\r\n" +
	"Content-Type: image/png; name=\"logo.png\"\r\n" +
	"Content-Disposition: inline\r\n" +
	"Content-ID: <logo@example.com>\r\n" +
	"Content-Transfer-Encoding: base64\r\n" +
	"\r\n" +
	"iVBORw0K\r\n" +
	"--outer\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"report.pdf\"\r\n" +
	"\r\n" +
	"%PDF\r\n" +
	"--outer--\r\n"

func TestFromEML(t *testing.T) {
	e, err := FromEML(strings.NewReader(sampleEML))
	require.NoError(t, err)

	assert.Equal(t, Address{Name: "Jane Doe", Email: "jane@example.com"}, e.Sender)
	assert.Equal(t, "RE: héllo", e.Subject)
	assert.Equal(t, time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), e.SentOn.UTC())
	assert.Equal(t, ImportanceHigh, e.Importance)
	assert.Equal(t, []string{"red", "blue"}, e.Categories)
	assert.Equal(t, "plain body", strings.TrimSpace(e.BodyText))
	assert.Equal(t, "<p>html body</p>", strings.TrimSpace(e.BodyHTML))
	assert.Contains(t, e.TransportHeaders, "<abc@example.com>")

	require.Len(t, e.Recipients, 3)
	assert.Equal(t, Recipient{Address{Name: "Joe", Email: "joe@example.com"}, RecipientTo}, e.Recipients[0])
	assert.Equal(t, "ann@example.com", e.Recipients[1].Email)
	assert.Equal(t, RecipientCc, e.Recipients[2].Type)

	require.Len(t, e.Attachments, 2)
	assert.True(t, e.Attachments[0].Inline)
	assert.Equal(t, "logo@example.com", e.Attachments[0].ContentID)
	assert.Equal(t, "logo.png", e.Attachments[0].FileName)
	assert.Equal(t, "image/png", e.Attachments[0].MimeType)
	assert.Equal(t, "report.pdf", e.Attachments[1].FileName)
	assert.Equal(t, []byte("%PDF"), e.Attachments[1].Data)

	streams := save(t, e.Message)
	assert.Equal(t, "<abc@example.com>", mustString(t, streams[mapi.PidTagInternetMessageID.StreamName()]))
	assert.Equal(t, "héllo", mustString(t, streams[mapi.PidTagNormalizedSubject.StreamName()]))
	assert.Contains(t, streams, "__attach_version1.0_#00000001/"+mapi.PidTagAttachDataBinary.StreamName())
}

func TestFromEMLSinglePart(t *testing.T) {
	raw := "From: jane@example.com\r\nSubject: hi\r\nContent-Type: text/plain\r\n\r\njust text\r\n"
	e, err := FromEML(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "just text", strings.TrimSpace(e.BodyText))
	assert.Empty(t, e.Attachments)
	assert.Empty(t, e.Recipients)
}
