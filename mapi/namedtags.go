package mapi

import "github.com/google/uuid"

//Property sets -- [MS-OXPROPS] 1.3.2
var (
	PSMAPI            = uuid.MustParse("00020328-0000-0000-C000-000000000046")
	PSPublicStrings   = uuid.MustParse("00020329-0000-0000-C000-000000000046")
	PSInternetHeaders = uuid.MustParse("00020386-0000-0000-C000-000000000046")
	PSETIDCommon      = uuid.MustParse("00062008-0000-0000-C000-000000000046")
	PSETIDAddress     = uuid.MustParse("00062004-0000-0000-C000-000000000046")
	PSETIDAppointment = uuid.MustParse("00062002-0000-0000-C000-000000000046")
	PSETIDTask        = uuid.MustParse("00062003-0000-0000-C000-000000000046")
	PSETIDNote        = uuid.MustParse("0006200E-0000-0000-C000-000000000046")
	PSETIDLog         = uuid.MustParse("0006200A-0000-0000-C000-000000000046")
	PSETIDMeeting     = uuid.MustParse("6ED8DA90-450B-101B-98DA-00AA003F1305")
)

//-------- NAMED TAGS -------

//PidNameKeywords categories of the message
var PidNameKeywords = NamedPropertyTag{"PidNameKeywords", 0, PSPublicStrings, PtypMultipleString}

//PidLidCategories categories of the message, Outlook's own copy
var PidLidCategories = NamedPropertyTag{"PidLidCategories", 0x00009000, PSETIDCommon, PtypMultipleString}

//PidLidFlagRequest the follow up text of the flag
var PidLidFlagRequest = NamedPropertyTag{"PidLidFlagRequest", 0x00008530, PSETIDCommon, PtypString}

//PidLidReminderSet whether a reminder is set
var PidLidReminderSet = NamedPropertyTag{"PidLidReminderSet", 0x00008503, PSETIDCommon, PtypBoolean}

//PidLidReminderDelta minutes before the start that the reminder fires
var PidLidReminderDelta = NamedPropertyTag{"PidLidReminderDelta", 0x00008501, PSETIDCommon, PtypInteger32}

//PidLidReminderTime the time the reminder is due
var PidLidReminderTime = NamedPropertyTag{"PidLidReminderTime", 0x00008502, PSETIDCommon, PtypTime}

//PidLidReminderSignalTime the time the reminder fires
var PidLidReminderSignalTime = NamedPropertyTag{"PidLidReminderSignalTime", 0x00008560, PSETIDCommon, PtypTime}

//PidLidCommonStart start of the object, used for sorting
var PidLidCommonStart = NamedPropertyTag{"PidLidCommonStart", 0x00008516, PSETIDCommon, PtypTime}

//PidLidCommonEnd end of the object, used for sorting
var PidLidCommonEnd = NamedPropertyTag{"PidLidCommonEnd", 0x00008517, PSETIDCommon, PtypTime}

//PidLidInternetAccountName account the message was sent from
var PidLidInternetAccountName = NamedPropertyTag{"PidLidInternetAccountName", 0x00008580, PSETIDCommon, PtypString}

//PidLidUseTnef whether TNEF should be included on a message sent to the internet
var PidLidUseTnef = NamedPropertyTag{"PidLidUseTnef", 0x00008582, PSETIDCommon, PtypBoolean}

//PidLidSideEffects actions the client needs to take on the message
var PidLidSideEffects = NamedPropertyTag{"PidLidSideEffects", 0x00008510, PSETIDCommon, PtypInteger32}

//PidLidLocation location of an appointment
var PidLidLocation = NamedPropertyTag{"PidLidLocation", 0x00008208, PSETIDAppointment, PtypString}

//PidLidAppointmentStartWhole start of an appointment
var PidLidAppointmentStartWhole = NamedPropertyTag{"PidLidAppointmentStartWhole", 0x0000820D, PSETIDAppointment, PtypTime}

//PidLidAppointmentEndWhole end of an appointment
var PidLidAppointmentEndWhole = NamedPropertyTag{"PidLidAppointmentEndWhole", 0x0000820E, PSETIDAppointment, PtypTime}

//PidLidAppointmentDuration length of an appointment in minutes
var PidLidAppointmentDuration = NamedPropertyTag{"PidLidAppointmentDuration", 0x00008213, PSETIDAppointment, PtypInteger32}

//PidLidAppointmentSubType whether the appointment is an all day event
var PidLidAppointmentSubType = NamedPropertyTag{"PidLidAppointmentSubType", 0x00008215, PSETIDAppointment, PtypBoolean}

//PidLidBusyStatus availability of the user during the appointment
var PidLidBusyStatus = NamedPropertyTag{"PidLidBusyStatus", 0x00008205, PSETIDAppointment, PtypInteger32}

//PidLidAppointmentStateFlags meeting, received or cancelled
var PidLidAppointmentStateFlags = NamedPropertyTag{"PidLidAppointmentStateFlags", 0x00008217, PSETIDAppointment, PtypInteger32}

//PidLidAppointmentSequence sequence number of a meeting object
var PidLidAppointmentSequence = NamedPropertyTag{"PidLidAppointmentSequence", 0x00008201, PSETIDAppointment, PtypInteger32}

//PidLidRecurring whether the appointment recurs
var PidLidRecurring = NamedPropertyTag{"PidLidRecurring", 0x00008223, PSETIDAppointment, PtypBoolean}

//PidLidAllAttendeesString semicolon separated list of attendees
var PidLidAllAttendeesString = NamedPropertyTag{"PidLidAllAttendeesString", 0x00008238, PSETIDAppointment, PtypString}

//PidLidToAttendeesString semicolon separated list of required attendees
var PidLidToAttendeesString = NamedPropertyTag{"PidLidToAttendeesString", 0x0000823B, PSETIDAppointment, PtypString}

//PidLidCcAttendeesString semicolon separated list of optional attendees
var PidLidCcAttendeesString = NamedPropertyTag{"PidLidCcAttendeesString", 0x0000823C, PSETIDAppointment, PtypString}

// NamedTags is every catalog entry keyed by its symbolic name
var NamedTags = map[string]NamedPropertyTag{}

func init() {
	for _, tag := range []NamedPropertyTag{
		PidNameKeywords, PidLidCategories, PidLidFlagRequest, PidLidReminderSet, PidLidReminderDelta,
		PidLidReminderTime, PidLidReminderSignalTime, PidLidCommonStart, PidLidCommonEnd,
		PidLidInternetAccountName, PidLidUseTnef, PidLidSideEffects, PidLidLocation,
		PidLidAppointmentStartWhole, PidLidAppointmentEndWhole, PidLidAppointmentDuration,
		PidLidAppointmentSubType, PidLidBusyStatus, PidLidAppointmentStateFlags, PidLidAppointmentSequence,
		PidLidRecurring, PidLidAllAttendeesString, PidLidToAttendeesString, PidLidCcAttendeesString,
	} {
		NamedTags[tag.Name] = tag
	}
}

// PropertySets maps the names used in message definitions to property set GUIDs
var PropertySets = map[string]uuid.UUID{
	"PS_MAPI":             PSMAPI,
	"PS_PUBLIC_STRINGS":   PSPublicStrings,
	"PS_INTERNET_HEADERS": PSInternetHeaders,
	"PSETID_Common":       PSETIDCommon,
	"PSETID_Address":      PSETIDAddress,
	"PSETID_Appointment":  PSETIDAppointment,
	"PSETID_Task":         PSETIDTask,
	"PSETID_Note":         PSETIDNote,
	"PSETID_Log":          PSETIDLog,
	"PSETID_Meeting":      PSETIDMeeting,
}
