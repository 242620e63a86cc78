package msg

import (
	"fmt"
	"strings"
	"time"

	"github.com/sensepost/outmsg/mapi"
)

//Appointment an IPM.Appointment item, a meeting when it has recipients
type Appointment struct {
	*Email

	Location   string
	Start      time.Time
	End        time.Time
	AllDay     bool
	BusyStatus BusyStatus
	// ReminderMinutes before the start, a reminder is set when it is positive
	ReminderMinutes int
}

// PidLidAppointmentStateFlags bit of a meeting
const appointmentMeeting = 0x00000001

// NewAppointment creates an appointment running from start to end
func NewAppointment(sender Address, subject, location string, start, end time.Time) *Appointment {
	a := &Appointment{
		Email:      NewEmail(sender, subject, false),
		Location:   location,
		Start:      start,
		End:        end,
		BusyStatus: BusyStatusBusy,
	}
	a.Class = ClassAppointment
	a.populate = a.writeProperties
	return a
}

func (a *Appointment) writeProperties() error {
	if err := a.BusyStatus.check(); err != nil {
		return err
	}
	if a.End.Before(a.Start) {
		return fmt.Errorf("%w: appointment ends before it starts", ErrOutOfRange)
	}
	if a.IconIndex == 0 {
		a.IconIndex = IconAppointment
	}
	start, end := a.Start.UTC(), a.End.UTC()
	if a.ReminderMinutes > 0 && a.ReminderTime.IsZero() {
		// the reminder is due at the start and signals ReminderMinutes earlier
		a.ReminderTime = start
	}
	if err := a.Email.writeProperties(); err != nil {
		return err
	}

	for _, v := range []defaultProperty{
		{mapi.PidTagStartDate, start, nil},
		{mapi.PidTagEndDate, end, nil},
	} {
		if err := a.setDefault(v.tag, v.value, v.flags...); err != nil {
			return err
		}
	}

	var state int32
	if len(a.Recipients) > 0 {
		state = appointmentMeeting
	}
	named := []namedDefault{
		{mapi.PidLidLocation, a.Location},
		{mapi.PidLidAppointmentStartWhole, start},
		{mapi.PidLidAppointmentEndWhole, end},
		{mapi.PidLidCommonStart, start},
		{mapi.PidLidCommonEnd, end},
		{mapi.PidLidAppointmentDuration, int32(end.Sub(start) / time.Minute)},
		{mapi.PidLidAppointmentSubType, a.AllDay},
		{mapi.PidLidBusyStatus, int32(a.BusyStatus)},
		{mapi.PidLidAppointmentStateFlags, state},
		{mapi.PidLidAppointmentSequence, int32(0)},
		{mapi.PidLidRecurring, false},
		{mapi.PidLidAllAttendeesString, a.attendees(RecipientTo, RecipientCc)},
		{mapi.PidLidToAttendeesString, a.attendees(RecipientTo)},
		{mapi.PidLidCcAttendeesString, a.attendees(RecipientCc)},
	}
	if a.ReminderMinutes > 0 {
		named = append(named, namedDefault{mapi.PidLidReminderDelta, int32(a.ReminderMinutes)})
	}
	for _, v := range named {
		if err := a.setNamedDefault(v.tag, v.value); err != nil {
			return err
		}
	}
	if a.ReminderMinutes > 0 {
		signal := a.ReminderTime.UTC().Add(-time.Duration(a.ReminderMinutes) * time.Minute)
		if err := a.named.AddProperty(mapi.PidLidReminderSignalTime, signal); err != nil {
			return err
		}
	}
	return nil
}

func (a *Appointment) attendees(kinds ...RecipientType) string {
	var names []string
	for _, r := range a.Recipients {
		for _, kind := range kinds {
			if r.Type == kind {
				names = append(names, r.displayName())
			}
		}
	}
	return strings.Join(names, "; ")
}
