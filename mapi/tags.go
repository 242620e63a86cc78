package mapi

//-------- TAGS -------

//Find these in [MS-OXPROPS]

//----Tags common to every message object ----

//PidTagMessageClass the type of the message, IPM.Note and friends
var PidTagMessageClass = PropertyTag{PtypString, 0x001A}

//PidTagMessageFlags status flags of the message
var PidTagMessageFlags = PropertyTag{PtypInteger32, 0x0E07}

//PidTagMessageSize sum of the sizes of all properties on the message
var PidTagMessageSize = PropertyTag{PtypInteger32, 0x0E08}

//PidTagMessageLocaleID locale the message was written in
var PidTagMessageLocaleID = PropertyTag{PtypInteger32, 0x3FF1}

//PidTagMessageCodepage code page for PtypString8 values on the message
var PidTagMessageCodepage = PropertyTag{PtypInteger32, 0x3FFD}

//PidTagInternetCodepage code page of the HTML body
var PidTagInternetCodepage = PropertyTag{PtypInteger32, 0x3FDE}

//PidTagIconIndex index of the icon to display
var PidTagIconIndex = PropertyTag{PtypInteger32, 0x1080}

//PidTagImportance importance the sender set
var PidTagImportance = PropertyTag{PtypInteger32, 0x0017}

//PidTagPriority urgency the sender set
var PidTagPriority = PropertyTag{PtypInteger32, 0x0026}

//PidTagSensitivity sender's sensitivity setting
var PidTagSensitivity = PropertyTag{PtypInteger32, 0x0036}

//PidTagStoreSupportMask what the store that created the message supports
var PidTagStoreSupportMask = PropertyTag{PtypInteger32, 0x340D}

//PidTagStoreUnicodeMask unicode support of the store that created the message
var PidTagStoreUnicodeMask = PropertyTag{PtypInteger32, 0x340F}

//PidTagAlternateRecipientAllowed whether the message may be forwarded to an alternate recipient
var PidTagAlternateRecipientAllowed = PropertyTag{PtypBoolean, 0x0002}

//PidTagHasAttachments whether the message has attachments
var PidTagHasAttachments = PropertyTag{PtypBoolean, 0x0E1B}

//PidTagSearchKey binary key used to find related messages
var PidTagSearchKey = PropertyTag{PtypBinary, 0x300B}

//PidTagCreationTime when the object was created
var PidTagCreationTime = PropertyTag{PtypTime, 0x3007}

//PidTagLastModificationTime when the object was last changed
var PidTagLastModificationTime = PropertyTag{PtypTime, 0x3008}

//PidTagLastModifierName name of the last user that changed the object
var PidTagLastModifierName = PropertyTag{PtypString, 0x3FFA}

//PidTagFlagStatus follow up flag of the message
var PidTagFlagStatus = PropertyTag{PtypInteger32, 0x1090}

//----Tags for subject and body ----

//PidTagSubject full subject of the message
var PidTagSubject = PropertyTag{PtypString, 0x0037}

//PidTagSubjectPrefix prefix such as RE: or FW:
var PidTagSubjectPrefix = PropertyTag{PtypString, 0x003D}

//PidTagNormalizedSubject subject without the prefix
var PidTagNormalizedSubject = PropertyTag{PtypString, 0x0E1D}

//PidTagConversationTopic unchanging subject of the conversation
var PidTagConversationTopic = PropertyTag{PtypString, 0x0070}

//PidTagBody plain text body
var PidTagBody = PropertyTag{PtypString, 0x1000}

//PidTagHTML html body, stored as bytes in the internet code page
var PidTagHTML = PropertyTag{PtypBinary, 0x1013}

//PidTagNativeBody format of the body
var PidTagNativeBody = PropertyTag{PtypInteger32, 0x1016}

//----Tags for transport and addressing ----

//PidTagClientSubmitTime when the sender sent the message
var PidTagClientSubmitTime = PropertyTag{PtypTime, 0x0039}

//PidTagMessageDeliveryTime when the message was delivered
var PidTagMessageDeliveryTime = PropertyTag{PtypTime, 0x0E06}

//PidTagInternetMessageID Message-ID header
var PidTagInternetMessageID = PropertyTag{PtypString, 0x1035}

//PidTagInReplyToID In-Reply-To header
var PidTagInReplyToID = PropertyTag{PtypString, 0x1042}

//PidTagInternetReferences References header
var PidTagInternetReferences = PropertyTag{PtypString, 0x1039}

//PidTagTransportMessageHeaders the full RFC 2822 header block
var PidTagTransportMessageHeaders = PropertyTag{PtypString, 0x007D}

//PidTagReadReceiptRequested whether the sender wants a read receipt
var PidTagReadReceiptRequested = PropertyTag{PtypBoolean, 0x0029}

//PidTagOriginatorDeliveryReportRequested whether the sender wants a delivery receipt
var PidTagOriginatorDeliveryReportRequested = PropertyTag{PtypBoolean, 0x0023}

//PidTagDisplayTo display names of the To recipients
var PidTagDisplayTo = PropertyTag{PtypString, 0x0E04}

//PidTagDisplayCc display names of the Cc recipients
var PidTagDisplayCc = PropertyTag{PtypString, 0x0E03}

//PidTagDisplayBcc display names of the Bcc recipients
var PidTagDisplayBcc = PropertyTag{PtypString, 0x0E02}

//PidTagSenderName display name of the sender
var PidTagSenderName = PropertyTag{PtypString, 0x0C1A}

//PidTagSenderEmailAddress email address of the sender
var PidTagSenderEmailAddress = PropertyTag{PtypString, 0x0C1F}

//PidTagSenderAddressType address type of the sender
var PidTagSenderAddressType = PropertyTag{PtypString, 0x0C1E}

//PidTagSenderSMTPAddress smtp address of the sender
var PidTagSenderSMTPAddress = PropertyTag{PtypString, 0x5D01}

//PidTagSenderEntryID entry id of the sender
var PidTagSenderEntryID = PropertyTag{PtypBinary, 0x0C19}

//PidTagSenderSearchKey search key of the sender
var PidTagSenderSearchKey = PropertyTag{PtypBinary, 0x0C1D}

//PidTagSentRepresentingName display name of the user the message was sent on behalf of
var PidTagSentRepresentingName = PropertyTag{PtypString, 0x0042}

//PidTagSentRepresentingEmailAddress email address of the represented user
var PidTagSentRepresentingEmailAddress = PropertyTag{PtypString, 0x0065}

//PidTagSentRepresentingAddressType address type of the represented user
var PidTagSentRepresentingAddressType = PropertyTag{PtypString, 0x0064}

//PidTagSentRepresentingSMTPAddress smtp address of the represented user
var PidTagSentRepresentingSMTPAddress = PropertyTag{PtypString, 0x5D02}

//PidTagSentRepresentingEntryID entry id of the represented user
var PidTagSentRepresentingEntryID = PropertyTag{PtypBinary, 0x0041}

//PidTagSentRepresentingSearchKey search key of the represented user
var PidTagSentRepresentingSearchKey = PropertyTag{PtypBinary, 0x003B}

//PidTagStartDate start of an appointment
var PidTagStartDate = PropertyTag{PtypTime, 0x0060}

//PidTagEndDate end of an appointment
var PidTagEndDate = PropertyTag{PtypTime, 0x0061}

//----Tags used in recipient ----

//PidTagRowid index of the recipient row
var PidTagRowid = PropertyTag{PtypInteger32, 0x3000}

//PidTagRecipientType To, Cc or Bcc
var PidTagRecipientType = PropertyTag{PtypInteger32, 0x0C15}

//PidTagDisplayName display name of the recipient or attachment
var PidTagDisplayName = PropertyTag{PtypString, 0x3001}

//PidTagAddressType address type of the recipient
var PidTagAddressType = PropertyTag{PtypString, 0x3002}

//PidTagEmailAddress email address of the recipient
var PidTagEmailAddress = PropertyTag{PtypString, 0x3003}

//PidTagSMTPAddress used in recepient
var PidTagSMTPAddress = PropertyTag{PtypString, 0x39FE}

//PidTagEntryID entry id of the object
var PidTagEntryID = PropertyTag{PtypBinary, 0x0FFF}

//PidTagObjectType used in recepient
var PidTagObjectType = PropertyTag{PtypInteger32, 0x0FFE}

//PidTagDisplayType  used in recepient
var PidTagDisplayType = PropertyTag{PtypInteger32, 0x3900}

//PidTagRecipientFlags used in recepient
var PidTagRecipientFlags = PropertyTag{PtypInteger32, 0x5FFD}

//PidTagResponsibility whether the recipient was handled by a transport
var PidTagResponsibility = PropertyTag{PtypBoolean, 0x0E0F}

//PidTagSendRichInfo whether the recipient can receive rich text
var PidTagSendRichInfo = PropertyTag{PtypBoolean, 0x3A40}

//PidTagSendInternetEncoding  used in recepient
var PidTagSendInternetEncoding = PropertyTag{PtypInteger32, 0x3A71}

//----Tags used in attachments ----

//PidTagAttachNumber number of the attachment in the message
var PidTagAttachNumber = PropertyTag{PtypInteger32, 0x0E21}

//PidTagAttachMethod how the attachment data is stored
var PidTagAttachMethod = PropertyTag{PtypInteger32, 0x3705}

//PidTagAttachDataBinary the attachment content
var PidTagAttachDataBinary = PropertyTag{PtypBinary, 0x3701}

//PidTagAttachFilename 8.3 file name of the attachment
var PidTagAttachFilename = PropertyTag{PtypString, 0x3704}

//PidTagAttachLongFilename full file name of the attachment
var PidTagAttachLongFilename = PropertyTag{PtypString, 0x3707}

//PidTagAttachExtension file extension, including the dot
var PidTagAttachExtension = PropertyTag{PtypString, 0x3703}

//PidTagAttachMimeTag content type of the attachment
var PidTagAttachMimeTag = PropertyTag{PtypString, 0x370E}

//PidTagAttachContentID content id used by cid: references in the html body
var PidTagAttachContentID = PropertyTag{PtypString, 0x3712}

//PidTagAttachFlags attachment rendering flags
var PidTagAttachFlags = PropertyTag{PtypInteger32, 0x3714}

//PidTagAttachSize size of the attachment object
var PidTagAttachSize = PropertyTag{PtypInteger32, 0x0E20}

//PidTagAttachmentHidden whether the attachment is hidden from the user
var PidTagAttachmentHidden = PropertyTag{PtypBoolean, 0x7FFE}

//PidTagRenderingPosition character offset of the attachment in the body
var PidTagRenderingPosition = PropertyTag{PtypInteger32, 0x370B}
