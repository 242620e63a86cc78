package msg

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrClassNotSet is returned when a message is saved without a message class
	ErrClassNotSet = errors.New("message class not set")
	// ErrOutOfRange is returned for enumerated values outside their known set
	ErrOutOfRange = errors.New("value out of range")
	// ErrClosed is returned for operations on a closed message
	ErrClosed = errors.New("message is closed")
	// ErrAlreadySaved is returned when a message is saved a second time
	ErrAlreadySaved = errors.New("message already saved")
)

//MessageClass the kind of item, written as PidTagMessageClass
type MessageClass int

//Message classes
const (
	ClassUnknown MessageClass = iota
	ClassNote
	ClassNoteSMIME
	ClassNoteSMIMEMultipartSigned
	ClassAppointment
	ClassPost
	ClassTask
	ClassContact
)

var messageClasses = map[MessageClass]string{
	ClassNote:                     "IPM.Note",
	ClassNoteSMIME:                "IPM.Note.SMIME",
	ClassNoteSMIMEMultipartSigned: "IPM.Note.SMIME.MultipartSigned",
	ClassAppointment:              "IPM.Appointment",
	ClassPost:                     "IPM.Post",
	ClassTask:                     "IPM.Task",
	ClassContact:                  "IPM.Contact",
}

func (c MessageClass) String() string {
	if s, ok := messageClasses[c]; ok {
		return s
	}
	return fmt.Sprintf("MessageClass(%d)", int(c))
}

// value returns the PidTagMessageClass string
func (c MessageClass) value() (string, error) {
	if c == ClassUnknown {
		return "", ErrClassNotSet
	}
	s, ok := messageClasses[c]
	if !ok {
		return "", fmt.Errorf("%w: message class %d", ErrOutOfRange, int(c))
	}
	return s, nil
}

//Importance PidTagImportance
type Importance int32

//Importance levels
const (
	ImportanceLow    Importance = 0
	ImportanceNormal Importance = 1
	ImportanceHigh   Importance = 2
)

func (i Importance) check() error {
	if i < ImportanceLow || i > ImportanceHigh {
		return fmt.Errorf("%w: importance %d", ErrOutOfRange, int32(i))
	}
	return nil
}

//Priority PidTagPriority
type Priority int32

//Priority levels
const (
	PriorityNonUrgent Priority = -1
	PriorityNormal    Priority = 0
	PriorityUrgent    Priority = 1
)

func (p Priority) check() error {
	if p < PriorityNonUrgent || p > PriorityUrgent {
		return fmt.Errorf("%w: priority %d", ErrOutOfRange, int32(p))
	}
	return nil
}

//Sensitivity PidTagSensitivity
type Sensitivity int32

//Sensitivity levels
const (
	SensitivityNormal       Sensitivity = 0
	SensitivityPersonal     Sensitivity = 1
	SensitivityPrivate      Sensitivity = 2
	SensitivityConfidential Sensitivity = 3
)

func (s Sensitivity) check() error {
	if s < SensitivityNormal || s > SensitivityConfidential {
		return fmt.Errorf("%w: sensitivity %d", ErrOutOfRange, int32(s))
	}
	return nil
}

//RecipientType PidTagRecipientType
type RecipientType int32

//Recipient types
const (
	RecipientTo  RecipientType = 1
	RecipientCc  RecipientType = 2
	RecipientBcc RecipientType = 3
)

func (r RecipientType) check() error {
	if r < RecipientTo || r > RecipientBcc {
		return fmt.Errorf("%w: recipient type %d", ErrOutOfRange, int32(r))
	}
	return nil
}

//BusyStatus PidLidBusyStatus
type BusyStatus int32

//Busy statuses
const (
	BusyStatusFree             BusyStatus = 0
	BusyStatusTentative        BusyStatus = 1
	BusyStatusBusy             BusyStatus = 2
	BusyStatusOutOfOffice      BusyStatus = 3
	BusyStatusWorkingElsewhere BusyStatus = 4
)

func (b BusyStatus) check() error {
	if b < BusyStatusFree || b > BusyStatusWorkingElsewhere {
		return fmt.Errorf("%w: busy status %d", ErrOutOfRange, int32(b))
	}
	return nil
}

//Icon indexes, PidTagIconIndex
const (
	IconReadMail    = 0x00000100
	IconUnreadMail  = 0x00000101
	IconUnsentMail  = 0x00000103
	IconPost        = 0x00000300
	IconAppointment = 0x00000400
)

// ParseImportance accepts low, normal or high
func ParseImportance(s string) (Importance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "5", "4":
		return ImportanceLow, nil
	case "", "normal", "3":
		return ImportanceNormal, nil
	case "high", "1", "2":
		return ImportanceHigh, nil
	}
	return ImportanceNormal, fmt.Errorf("%w: importance %q", ErrOutOfRange, s)
}

// ParseSensitivity accepts normal, personal, private or confidential
func ParseSensitivity(s string) (Sensitivity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return SensitivityNormal, nil
	case "personal":
		return SensitivityPersonal, nil
	case "private":
		return SensitivityPrivate, nil
	case "confidential", "company-confidential":
		return SensitivityConfidential, nil
	}
	return SensitivityNormal, fmt.Errorf("%w: sensitivity %q", ErrOutOfRange, s)
}

// ParseBusyStatus accepts free, tentative, busy, oof or elsewhere
func ParseBusyStatus(s string) (BusyStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return BusyStatusFree, nil
	case "tentative":
		return BusyStatusTentative, nil
	case "", "busy":
		return BusyStatusBusy, nil
	case "oof", "outofoffice", "out-of-office":
		return BusyStatusOutOfOffice, nil
	case "elsewhere", "workingelsewhere":
		return BusyStatusWorkingElsewhere, nil
	}
	return BusyStatusBusy, fmt.Errorf("%w: busy status %q", ErrOutOfRange, s)
}
