package mapi

//Property Data types
const (
	PtypUnspecified          PropertyType = 0x0000
	PtypNull                 PropertyType = 0x0001
	PtypInteger16            PropertyType = 0x0002
	PtypInteger32            PropertyType = 0x0003
	PtypFloating32           PropertyType = 0x0004
	PtypFloating64           PropertyType = 0x0005
	PtypCurrency             PropertyType = 0x0006
	PtypFloatingTime         PropertyType = 0x0007
	PtypErrorCode            PropertyType = 0x000A
	PtypBoolean              PropertyType = 0x000B
	PtypObject               PropertyType = 0x000D
	PtypInteger64            PropertyType = 0x0014
	PtypString8              PropertyType = 0x001E
	PtypString               PropertyType = 0x001F
	PtypTime                 PropertyType = 0x0040
	PtypGUID                 PropertyType = 0x0048
	PtypServerID             PropertyType = 0x00FB
	PtypRestriction          PropertyType = 0x00FD
	PtypRuleAction           PropertyType = 0x00FE
	PtypBinary               PropertyType = 0x0102
	PtypMultipleInteger16    PropertyType = 0x1002
	PtypMultipleInteger32    PropertyType = 0x1003
	PtypMultipleFloating32   PropertyType = 0x1004
	PtypMultipleFloating64   PropertyType = 0x1005
	PtypMultipleCurrency     PropertyType = 0x1006
	PtypMultipleFloatingTime PropertyType = 0x1007
	PtypMultipleInteger64    PropertyType = 0x1014
	PtypMultipleString8      PropertyType = 0x101E
	PtypMultipleString       PropertyType = 0x101F
	PtypMultipleTime         PropertyType = 0x1040
	PtypMultipleGUID         PropertyType = 0x1048
	PtypMultipleBinary       PropertyType = 0x1102
)

// multi-valued types are the base type with this bit set
const ptypMultipleFlag = 0x1000

//Property attribute flags written with every property stream entry
const (
	PropAttrMandatory = 0x00000001
	PropAttrReadable  = 0x00000002
	PropAttrWritable  = 0x00000004
)

// DefaultFlags applied when AddProperty is called without flags
const DefaultFlags = PropAttrReadable | PropAttrWritable

// the synthetic ids of named properties start here
const namedPropertyBase = 0x8000

//Message flags -- PidTagMessageFlags
const (
	MsgFlagRead         = 0x00000001
	MsgFlagUnmodified   = 0x00000002
	MsgFlagSubmitted    = 0x00000004
	MsgFlagUnsent       = 0x00000008
	MsgFlagHasAttach    = 0x00000010
	MsgFlagFromMe       = 0x00000020
	MsgFlagAssociated   = 0x00000040
	MsgFlagResend       = 0x00000080
	MsgFlagNotifyRead   = 0x00000100
	MsgFlagNotifyUnread = 0x00000200
)

//Store support mask bits -- PidTagStoreSupportMask
const (
	StoreEntryIDUnique   = 0x00000001
	StoreReadOnly        = 0x00000002
	StoreSearchOK        = 0x00000004
	StoreModifyOK        = 0x00000008
	StoreCreateOK        = 0x00000010
	StoreAttachOK        = 0x00000020
	StoreOLEOK           = 0x00000040
	StoreSubmitOK        = 0x00000080
	StoreNotifyOK        = 0x00000100
	StoreMVPropsOK       = 0x00000200
	StoreCategorizeOK    = 0x00000400
	StoreRTFOK           = 0x00000800
	StoreRestrictionOK   = 0x00001000
	StoreSortOK          = 0x00002000
	StoreUnicodeOK       = 0x00040000
	StoreHTMLOK          = 0x00010000
	StoreItemProc        = 0x00200000
	StorePushOK          = 0x00800000
	DefaultStoreSupports = StoreAttachOK | StoreCategorizeOK | StoreCreateOK | StoreEntryIDUnique | StoreHTMLOK |
		StoreModifyOK | StoreMVPropsOK | StoreNotifyOK | StoreOLEOK | StoreRestrictionOK | StoreRTFOK |
		StoreSearchOK | StoreSortOK | StoreSubmitOK | StoreUnicodeOK
)

//Attachment methods -- PidTagAttachMethod
const (
	AttachNoAttachment = 0x00000000
	AttachByValue      = 0x00000001
	AttachByReference  = 0x00000002
	AttachEmbeddedMsg  = 0x00000005
	AttachOLE          = 0x00000006
)

//Object and display types used by recipients
const (
	ObjectTypeMailUser  = 0x00000006
	DisplayTypeMailUser = 0x00000000
)

//Native body formats -- PidTagNativeBody
const (
	NativeBodyUndefined = 0x00000000
	NativeBodyPlainText = 0x00000001
	NativeBodyRTF       = 0x00000002
	NativeBodyHTML      = 0x00000003
)

//Stream and storage names inside a message storage, [MS-OXMSG] 2.2
const (
	PropertiesStream     = "__properties_version1.0"
	NameIDStorage        = "__nameid_version1.0"
	RecipientStorageFmt  = "__recip_version1.0_#%08X"
	AttachmentStorageFmt = "__attach_version1.0_#%08X"
	SubStorageStreamFmt  = "__substg1.0_%04X%04X"
	GUIDStream           = "__substg1.0_00020102"
	EntryStream          = "__substg1.0_00030102"
	StringStream         = "__substg1.0_00040102"
)
