package msg

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/uuid"

	"github.com/sensepost/outmsg/mapi"
	"github.com/sensepost/outmsg/utils"
)

//Definition describes a message in YAML
type Definition struct {
	Type        string   `yaml:"type"`
	From        string   `yaml:"from"`
	OnBehalfOf  string   `yaml:"onbehalfof"`
	To          []string `yaml:"to"`
	Cc          []string `yaml:"cc"`
	Bcc         []string `yaml:"bcc"`
	Subject     string   `yaml:"subject"`
	Body        string   `yaml:"body"`
	HTML        string   `yaml:"html"`
	Categories  []string `yaml:"categories"`
	Importance  string   `yaml:"importance"`
	Sensitivity string   `yaml:"sensitivity"`
	Culture     string   `yaml:"culture"`
	Sent        string   `yaml:"sent"`
	Draft       bool     `yaml:"draft"`
	FlagRequest string   `yaml:"flag"`
	Account     string   `yaml:"account"`

	Location   string `yaml:"location"`
	Start      string `yaml:"start"`
	End        string `yaml:"end"`
	AllDay     bool   `yaml:"allday"`
	BusyStatus string `yaml:"busystatus"`
	Reminder   int    `yaml:"reminder"`

	Attachments     []AttachmentDefinition `yaml:"attachments"`
	Properties      []PropertyDefinition   `yaml:"properties"`
	NamedProperties []PropertyDefinition   `yaml:"namedproperties"`
}

//AttachmentDefinition a file to attach
type AttachmentDefinition struct {
	Path      string `yaml:"path"`
	ContentID string `yaml:"contentid"`
}

//PropertyDefinition an extra property given as text. Named properties use Name and Set,
//either a catalog name such as PidLidLocation or a custom one with a property set and type
type PropertyDefinition struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Set   string `yaml:"set"`
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// LoadDefinition reads a message definition from a YAML file
func LoadDefinition(path string) (*Definition, error) {
	def := &Definition{}
	if err := utils.ReadYml(path, def); err != nil {
		return nil, fmt.Errorf("reading definition %s: %w", path, err)
	}
	return def, nil
}

// ParseAddress accepts "Name <address>" or a bare address
func ParseAddress(s string) (Address, error) {
	if strings.TrimSpace(s) == "" {
		return Address{}, nil
	}
	a, err := mail.ParseAddress(s)
	if err != nil {
		return Address{}, fmt.Errorf("address %q: %w", s, err)
	}
	return Address{Name: a.Name, Email: a.Address}, nil
}

// Build creates the message the definition describes
func (d *Definition) Build() (*Message, error) {
	from, err := ParseAddress(d.From)
	if err != nil {
		return nil, err
	}

	var email *Email
	var m *Message
	switch strings.ToLower(d.Type) {
	case "", "email", "note":
		email = NewEmail(from, d.Subject, d.Draft)
		m = email.Message
	case "appointment", "meeting":
		start, end, err := d.period()
		if err != nil {
			return nil, err
		}
		appointment := NewAppointment(from, d.Subject, d.Location, start, end)
		appointment.AllDay = d.AllDay
		appointment.ReminderMinutes = d.Reminder
		if appointment.BusyStatus, err = ParseBusyStatus(d.BusyStatus); err != nil {
			return nil, err
		}
		email = appointment.Email
		m = appointment.Message
	case "post":
		post := NewPost(from, d.Subject)
		post.BodyText, post.BodyHTML, post.Categories = d.Body, d.HTML, d.Categories
		m = post.Message
	default:
		return nil, fmt.Errorf("%w: message type %q", ErrOutOfRange, d.Type)
	}

	if email != nil {
		if email.Representing, err = ParseAddress(d.OnBehalfOf); err != nil {
			return nil, err
		}
		email.BodyText, email.BodyHTML, email.Categories = d.Body, d.HTML, d.Categories
		email.FlagRequest, email.AccountName = d.FlagRequest, d.Account
		if d.Sent != "" {
			sent, err := parseTime(d.Sent)
			if err != nil {
				return nil, err
			}
			email.SentOn = sent
		}
		if err := d.addRecipients(m); err != nil {
			return nil, err
		}
	}

	if m.Importance, err = ParseImportance(d.Importance); err != nil {
		return nil, err
	}
	if m.Sensitivity, err = ParseSensitivity(d.Sensitivity); err != nil {
		return nil, err
	}
	m.Culture = d.Culture

	for _, a := range d.Attachments {
		attachment, err := m.AddAttachmentFile(a.Path)
		if err != nil {
			return nil, err
		}
		if a.ContentID != "" {
			attachment.Inline = true
			attachment.ContentID = strings.Trim(a.ContentID, "<>")
		}
	}
	for _, p := range d.Properties {
		if err := p.addTo(m); err != nil {
			return nil, err
		}
	}
	for _, p := range d.NamedProperties {
		if err := p.addNamedTo(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (d *Definition) addRecipients(m *Message) error {
	for _, list := range []struct {
		addresses []string
		kind      RecipientType
	}{{d.To, RecipientTo}, {d.Cc, RecipientCc}, {d.Bcc, RecipientBcc}} {
		for _, s := range list.addresses {
			a, err := ParseAddress(s)
			if err != nil {
				return err
			}
			if err := m.AddRecipient(a.Email, a.Name, list.kind); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Definition) period() (time.Time, time.Time, error) {
	start, err := parseTime(d.Start)
	if err != nil {
		return start, start, err
	}
	if d.End == "" {
		return start, start.Add(30 * time.Minute), nil
	}
	end, err := parseTime(d.End)
	return start, end, err
}

func parseTime(s string) (time.Time, error) {
	v, err := mapi.ParsePropertyType(s, mapi.PtypTime)
	if err != nil {
		return time.Time{}, err
	}
	return v.(time.Time), nil
}

func (p PropertyDefinition) value() (mapi.PropertyType, interface{}, error) {
	typ, err := mapi.PropertyTypeByName(p.Type)
	if err != nil {
		return typ, nil, err
	}
	v, err := mapi.ParsePropertyType(p.Value, typ)
	return typ, v, err
}

func (p PropertyDefinition) addTo(m *Message) error {
	id, err := strconv.ParseUint(p.ID, 0, 16)
	if err != nil {
		return fmt.Errorf("%w: property id %q: %v", mapi.ErrParse, p.ID, err)
	}
	typ, v, err := p.value()
	if err != nil {
		return err
	}
	return m.AddProperty(mapi.PropertyTag{PropertyType: typ, PropertyID: uint16(id)}, v)
}

func (p PropertyDefinition) addNamedTo(m *Message) error {
	tag, ok := mapi.NamedTags[p.Name]
	if !ok {
		var err error
		if tag, err = p.customTag(); err != nil {
			return err
		}
	} else if p.Type != "" {
		// a catalog entry keeps its declared type
		utils.Trace.Printf("Ignoring type %s given for %s\n", p.Type, p.Name)
	}
	v, err := mapi.ParsePropertyType(p.Value, tag.Type)
	if err != nil {
		return err
	}
	return m.AddNamedProperty(tag, v)
}

// customTag builds a tag for a named property outside the catalog. An id makes it a Lid-kind property,
// otherwise it is looked up by name.
func (p PropertyDefinition) customTag() (mapi.NamedPropertyTag, error) {
	tag := mapi.NamedPropertyTag{}
	guid, ok := mapi.PropertySets[p.Set]
	if !ok {
		var err error
		if guid, err = uuid.Parse(p.Set); err != nil {
			return tag, fmt.Errorf("%w: property set %q of %s", mapi.ErrParse, p.Set, p.Name)
		}
	}
	typ, err := mapi.PropertyTypeByName(p.Type)
	if err != nil {
		return tag, err
	}
	tag.Guid, tag.Type = guid, typ
	name := strings.TrimPrefix(strings.TrimPrefix(p.Name, "PidName"), "PidLid")
	if p.ID != "" {
		id, err := strconv.ParseUint(p.ID, 0, 32)
		if err != nil {
			return tag, fmt.Errorf("%w: lid %q: %v", mapi.ErrParse, p.ID, err)
		}
		tag.Name, tag.ID = "PidLid"+name, uint32(id)
		return tag, nil
	}
	tag.Name = "PidName" + name
	return tag, nil
}
