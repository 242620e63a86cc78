package mapi

import (
	"strings"

	"github.com/sensepost/outmsg/utils"
)

//OneOffProviderUID identifies one-off entry ids, [MS-OXCDATA] 2.2.5.1
var OneOffProviderUID = []byte{0x81, 0x2B, 0x1F, 0xA4, 0xBE, 0xA3, 0x10, 0x19, 0x9D, 0x6E, 0x00, 0xDD, 0x01, 0x0F, 0x54, 0x02}

//one-off flags: unicode strings, no rich text
const oneOffFlags = 0x9001

//DefaultAddressType used for internet mail users
const DefaultAddressType = "SMTP"

//OneOffEntryID builds the entry id of a mail user that has no address book entry
func OneOffEntryID(displayName, addressType, emailAddress string) []byte {
	if addressType == "" {
		addressType = DefaultAddressType
	}
	entryID := make([]byte, 4)
	entryID = append(entryID, OneOffProviderUID...)
	entryID = append(entryID, utils.EncodeNum(uint16(0))...)
	entryID = append(entryID, utils.EncodeNum(uint16(oneOffFlags))...)
	entryID = append(entryID, utils.UniString(displayName)...)
	entryID = append(entryID, utils.UniString(addressType)...)
	entryID = append(entryID, utils.UniString(emailAddress)...)
	return entryID
}

//SearchKey is the upper case ADDRTYPE:ADDRESS key of a mail user, null terminated
func SearchKey(addressType, emailAddress string) []byte {
	if addressType == "" {
		addressType = DefaultAddressType
	}
	return append([]byte(strings.ToUpper(addressType+":"+emailAddress)), 0x00)
}
