package msg

import (
	"time"

	"github.com/sensepost/outmsg/mapi"
)

//Post an IPM.Post item, a message posted to a folder
type Post struct {
	*Message

	Sender     Address
	Subject    string
	BodyText   string
	BodyHTML   string
	PostedOn   time.Time
	Categories []string
}

// NewPost creates a post from sender
func NewPost(sender Address, subject string) *Post {
	p := &Post{Message: NewMessage(ClassPost), Sender: sender, Subject: subject}
	p.populate = p.writeProperties
	return p
}

func (p *Post) writeProperties() error {
	if p.IconIndex == 0 {
		p.IconIndex = IconPost
	}
	posted := p.PostedOn
	if posted.IsZero() {
		posted = p.Created
	}
	flags := uint32(mapi.MsgFlagRead)
	if len(p.Attachments) > 0 {
		flags |= mapi.MsgFlagHasAttach
	}

	values := []defaultProperty{
		{mapi.PidTagMessageFlags, flags, nil},
		{mapi.PidTagClientSubmitTime, posted.UTC(), nil},
		{mapi.PidTagMessageDeliveryTime, posted.UTC(), nil},
	}
	values = append(values, subjectProperties(p.Subject)...)
	values = append(values, bodyProperties(p.BodyText, p.BodyHTML)...)
	values = append(values, addressProperties(p.Sender, senderTags)...)
	values = append(values, addressProperties(p.Sender, representingTags)...)
	for _, v := range values {
		if err := p.setDefault(v.tag, v.value, v.flags...); err != nil {
			return err
		}
	}
	if len(p.Categories) > 0 {
		return p.setNamedDefault(mapi.PidNameKeywords, p.Categories)
	}
	return nil
}
