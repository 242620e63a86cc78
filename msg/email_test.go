package msg

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sensepost/outmsg/mapi"
)

var jane = Address{Name: "Jane Doe", Email: "jane@example.com"}

func TestSplitSubject(t *testing.T) {
	tests := []struct {
		subject, prefix, normalized string
	}{
		{"RE: Hello", "RE: ", "Hello"},
		{"FW: RE: Hello", "FW: ", "RE: Hello"},
		{"Hello", "", "Hello"},
		{"Meeting 12: notes", "", "Meeting 12: notes"},
		{"", "", ""},
	}
	for _, tt := range tests {
		prefix, normalized := SplitSubject(tt.subject)
		assert.Equal(t, tt.prefix, prefix, tt.subject)
		assert.Equal(t, tt.normalized, normalized, tt.subject)
	}
}

func TestEmail(t *testing.T) {
	e := NewEmail(jane, "RE: Quarterly numbers", false)
	e.BodyText = "See attached"
	e.BodyHTML = "<p>See attached</p>"
	e.SentOn = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e.Categories = []string{"red", "blue"}
	e.FlagRequest = "Follow up"
	e.ReminderTime = time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)
	e.AccountName = "work"
	require.NoError(t, e.AddTo("joe@example.com", "Joe"))
	streams := save(t, e.Message)

	assert.Equal(t, "RE: ", mustString(t, streams[mapi.PidTagSubjectPrefix.StreamName()]))
	assert.Equal(t, "Quarterly numbers", mustString(t, streams[mapi.PidTagNormalizedSubject.StreamName()]))
	assert.Equal(t, "See attached", mustString(t, streams[mapi.PidTagBody.StreamName()]))
	assert.Equal(t, []byte("<p>See attached</p>"), streams[mapi.PidTagHTML.StreamName()])
	assert.Equal(t, "Jane Doe", mustString(t, streams[mapi.PidTagSenderName.StreamName()]))
	assert.Equal(t, "jane@example.com", mustString(t, streams[mapi.PidTagSentRepresentingSMTPAddress.StreamName()]))
	assert.Equal(t, []byte("SMTP:JANE@EXAMPLE.COM\x00"), streams[mapi.PidTagSenderSearchKey.StreamName()])

	top := streams[mapi.PropertiesStream]
	assert.Equal(t, []byte{mapi.NativeBodyHTML, 0, 0, 0, 0, 0, 0, 0}, property(t, top, 32, mapi.PidTagNativeBody))
	assert.Equal(t, []byte{0x01, 0x01, 0, 0, 0, 0, 0, 0}, property(t, top, 32, mapi.PidTagIconIndex))
	assert.Equal(t, []byte{0x00, 0xC0, 0x89, 0x76, 0x45, 0x3C, 0xDA, 0x01}, property(t, top, 32, mapi.PidTagClientSubmitTime))

	named := e.named.Entries()
	require.Len(t, named, 6)
	assert.Equal(t, "Keywords", named[0].Name)
	assert.Equal(t, mapi.KindName, named[0].Kind)

	keywords, ok := e.named.PropertyID(mapi.PidNameKeywords)
	require.True(t, ok)
	first := streams[mapi.PropertyTag{PropertyType: mapi.PtypMultipleString, PropertyID: keywords}.StreamName()+"-00000000"]
	assert.Equal(t, "red", mustString(t, first))

	nameid := mapi.NameIDStorage + "/"
	assert.Len(t, streams[nameid+mapi.EntryStream], 6*8)
	assert.Equal(t, streams[nameid+"__substg1.0_10150102"][4:8], streams[nameid+mapi.EntryStream][4:8])
}

func TestDraftEmail(t *testing.T) {
	e := NewEmail(jane, "Draft", true)
	streams := save(t, e.Message)
	top := streams[mapi.PropertiesStream]
	assert.Equal(t, []byte{mapi.MsgFlagUnsent, 0, 0, 0, 0, 0, 0, 0}, property(t, top, 32, mapi.PidTagMessageFlags))
	assert.Equal(t, []byte{0x03, 0x01, 0, 0, 0, 0, 0, 0}, property(t, top, 32, mapi.PidTagIconIndex))
}

func TestTransportHeadersOverride(t *testing.T) {
	e := NewEmail(jane, "Hello", false)
	e.InternetMessageID = "<default@example.com>"
	e.TransportHeaders = "Message-ID: <real@example.com>\r\n" +
		"In-Reply-To: <parent@example.com>\r\n" +
		"Date: Mon, 01 Jan 2024 00:00:00 +0000\r\n" +
		"Importance: high\r\n"
	require.NoError(t, e.Save(io.Discard))

	v, _ := e.props.Value(mapi.PidTagInternetMessageID.PropertyID)
	assert.Equal(t, "<real@example.com>", v)
	v, _ = e.props.Value(mapi.PidTagInReplyToID.PropertyID)
	assert.Equal(t, "<parent@example.com>", v)
	v, _ = e.props.Value(mapi.PidTagClientSubmitTime.PropertyID)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), v)
	v, _ = e.props.Value(mapi.PidTagImportance.PropertyID)
	assert.Equal(t, int32(ImportanceHigh), v)
}

func TestAppointment(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	a := NewAppointment(jane, "Planning", "Room 1", start, start.Add(90*time.Minute))
	a.ReminderMinutes = 15
	require.NoError(t, a.AddTo("joe@example.com", "Joe"))
	require.NoError(t, a.AddCc("ann@example.com", "Ann"))
	streams := save(t, a.Message)

	assert.Equal(t, "IPM.Appointment", mustString(t, streams[mapi.PidTagMessageClass.StreamName()]))

	value := func(tag mapi.NamedPropertyTag) interface{} {
		id, ok := a.named.PropertyID(tag)
		require.True(t, ok, tag.Name)
		v, ok := a.props.Value(id)
		require.True(t, ok, tag.Name)
		return v
	}
	assert.Equal(t, "Room 1", value(mapi.PidLidLocation))
	assert.Equal(t, int32(90), value(mapi.PidLidAppointmentDuration))
	assert.Equal(t, int32(BusyStatusBusy), value(mapi.PidLidBusyStatus))
	assert.Equal(t, int32(appointmentMeeting), value(mapi.PidLidAppointmentStateFlags))
	assert.Equal(t, "Joe; Ann", value(mapi.PidLidAllAttendeesString))
	assert.Equal(t, "Ann", value(mapi.PidLidCcAttendeesString))
	assert.Equal(t, start, value(mapi.PidLidReminderTime))
	assert.Equal(t, start.Add(-15*time.Minute), value(mapi.PidLidReminderSignalTime))

	guids := streams[mapi.NameIDStorage+"/"+mapi.GUIDStream]
	assert.Len(t, guids, 32, "PSETID_Common and PSETID_Appointment")
}

func TestAppointmentValidation(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 0, 0, 0, time.UTC)
	a := NewAppointment(jane, "Backwards", "", start, start.Add(-time.Hour))
	assert.ErrorIs(t, a.Save(io.Discard), ErrOutOfRange)

	a = NewAppointment(jane, "Busy", "", start, start)
	a.BusyStatus = BusyStatus(42)
	assert.ErrorIs(t, a.Save(io.Discard), ErrOutOfRange)
}

func TestPost(t *testing.T) {
	p := NewPost(jane, "Announcement")
	p.BodyText = "Hello all"
	p.Categories = []string{"news"}
	streams := save(t, p.Message)

	assert.Equal(t, "IPM.Post", mustString(t, streams[mapi.PidTagMessageClass.StreamName()]))
	assert.Equal(t, "Announcement", mustString(t, streams[mapi.PidTagConversationTopic.StreamName()]))
	assert.Equal(t, []byte{0x00, 0x03, 0, 0, 0, 0, 0, 0}, property(t, streams[mapi.PropertiesStream], 32, mapi.PidTagIconIndex))
	assert.Equal(t, 1, p.named.Len())
}
