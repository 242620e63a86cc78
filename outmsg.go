package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sensepost/outmsg/mapi"
	"github.com/sensepost/outmsg/msg"
	"github.com/sensepost/outmsg/utils"
	"github.com/urfave/cli"
)

//globals
var config utils.Config

func exit(err error) {
	if err != nil {
		utils.Error.Println(err)
		os.Exit(1)
	}
	os.Exit(0)
}

//loadConfig reads the global flags and the optional yaml config into config
func loadConfig(c *cli.Context) error {
	config.From = c.GlobalString("from")
	config.Culture = c.GlobalString("culture")
	config.Account = c.GlobalString("account")
	config.Verbose = c.GlobalBool("verbose")

	if c.GlobalString("config") != "" {
		var yamlConfig utils.YamlConfig
		if err := utils.ReadYml(c.GlobalString("config"), &yamlConfig); err != nil {
			utils.Error.Println("Invalid Config file.")
			return err
		}
		//values in the config file override cmdline options
		config.Merge(yamlConfig)
	}
	return nil
}

//outputPath picks the file to write, falling back to the subject inside the configured output directory
func outputPath(c *cli.Context, subject string) (string, error) {
	if out := c.String("output"); out != "" {
		return out, nil
	}
	if config.Output == "" {
		return "", fmt.Errorf("The file to save to is required. Use --output or -o")
	}
	return filepath.Join(config.Output, fileName(subject)), nil
}

func fileName(subject string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) || r < 0x20 {
			return '_'
		}
		return r
	}, strings.TrimSpace(subject))
	if name == "" {
		name = "message"
	}
	return name + ".msg"
}

func sender() (msg.Address, error) {
	return msg.ParseAddress(config.From)
}

//addRecipients adds every address given with --to, --cc and --bcc
func addRecipients(c *cli.Context, m *msg.Message) error {
	for _, field := range []struct {
		flag string
		kind msg.RecipientType
	}{{"to", msg.RecipientTo}, {"cc", msg.RecipientCc}, {"bcc", msg.RecipientBcc}} {
		for _, s := range c.StringSlice(field.flag) {
			a, err := msg.ParseAddress(s)
			if err != nil {
				return err
			}
			if err := m.AddRecipient(a.Email, a.Name, field.kind); err != nil {
				return err
			}
		}
	}
	return nil
}

func addAttachments(c *cli.Context, m *msg.Message) error {
	for _, path := range c.StringSlice("attach") {
		if _, err := m.AddAttachmentFile(path); err != nil {
			return err
		}
		utils.Trace.Printf("Attached %s\n", path)
	}
	return nil
}

func categories(c *cli.Context) []string {
	var out []string
	for _, s := range strings.Split(c.String("categories"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseTime(s string) (time.Time, error) {
	v, err := mapi.ParsePropertyType(s, mapi.PtypTime)
	if err != nil {
		return time.Time{}, err
	}
	return v.(time.Time), nil
}

func writeEmail(c *cli.Context) error {
	from, err := sender()
	if err != nil {
		return err
	}
	e := msg.NewEmail(from, c.String("subject"), c.Bool("draft"))
	e.BodyText = c.String("body")
	e.BodyHTML = c.String("html")
	e.Categories = categories(c)
	e.FlagRequest = c.String("flag")
	e.AccountName = config.Account
	e.Culture = config.Culture
	if e.Importance, err = msg.ParseImportance(c.String("importance")); err != nil {
		return err
	}
	if !e.Draft {
		e.SentOn = time.Now().UTC()
		e.Read = true
	}
	if err := addRecipients(c, e.Message); err != nil {
		return err
	}
	if err := addAttachments(c, e.Message); err != nil {
		return err
	}
	out, err := outputPath(c, e.Subject)
	if err != nil {
		return err
	}
	return e.SaveFile(out)
}

func writeAppointment(c *cli.Context) error {
	from, err := sender()
	if err != nil {
		return err
	}
	start, err := parseTime(c.String("start"))
	if err != nil {
		return err
	}
	end := start.Add(c.Duration("duration"))
	if c.String("end") != "" {
		if end, err = parseTime(c.String("end")); err != nil {
			return err
		}
	}
	a := msg.NewAppointment(from, c.String("subject"), c.String("location"), start, end)
	a.BodyText = c.String("body")
	a.AllDay = c.Bool("allday")
	a.ReminderMinutes = c.Int("reminder")
	if !c.IsSet("reminder") && config.Reminder != 0 {
		a.ReminderMinutes = config.Reminder
	}
	a.AccountName = config.Account
	a.Culture = config.Culture
	if a.BusyStatus, err = msg.ParseBusyStatus(c.String("busy")); err != nil {
		return err
	}
	if err := addRecipients(c, a.Message); err != nil {
		return err
	}
	if err := addAttachments(c, a.Message); err != nil {
		return err
	}
	out, err := outputPath(c, a.Subject)
	if err != nil {
		return err
	}
	return a.SaveFile(out)
}

func writePost(c *cli.Context) error {
	from, err := sender()
	if err != nil {
		return err
	}
	p := msg.NewPost(from, c.String("subject"))
	p.BodyText = c.String("body")
	p.BodyHTML = c.String("html")
	p.Categories = categories(c)
	p.Culture = config.Culture
	if err := addAttachments(c, p.Message); err != nil {
		return err
	}
	out, err := outputPath(c, p.Subject)
	if err != nil {
		return err
	}
	return p.SaveFile(out)
}

func convertEML(c *cli.Context) error {
	f, err := os.Open(c.String("input"))
	if err != nil {
		return err
	}
	defer f.Close()

	e, err := msg.FromEML(f)
	if err != nil {
		return err
	}
	e.Culture = config.Culture
	e.AccountName = config.Account
	out := c.String("output")
	if out == "" {
		out = strings.TrimSuffix(c.String("input"), filepath.Ext(c.String("input"))) + ".msg"
	}
	return e.SaveFile(out)
}

func buildDefinition(c *cli.Context) error {
	def, err := msg.LoadDefinition(c.String("definition"))
	if err != nil {
		return err
	}
	if def.From == "" {
		def.From = config.From
	}
	if def.Culture == "" {
		def.Culture = config.Culture
	}
	if def.Account == "" {
		def.Account = config.Account
	}
	m, err := def.Build()
	if err != nil {
		return err
	}
	out, err := outputPath(c, def.Subject)
	if err != nil {
		return err
	}
	return m.SaveFile(out)
}

var recipientFlags = []cli.Flag{
	cli.StringSliceFlag{
		Name:  "to,t",
		Usage: "A recipient, \"Name <address>\" or a bare address. Can be repeated",
	},
	cli.StringSliceFlag{
		Name:  "cc",
		Usage: "A carbon copy recipient. Can be repeated",
	},
	cli.StringSliceFlag{
		Name:  "bcc",
		Usage: "A blind carbon copy recipient. Can be repeated",
	},
}

var contentFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "subject,s",
		Value: "",
		Usage: "The subject of the message",
	},
	cli.StringFlag{
		Name:  "body,b",
		Value: "",
		Usage: "The plain text body",
	},
	cli.StringSliceFlag{
		Name:  "attach,a",
		Usage: "A file to attach. Can be repeated",
	},
	cli.StringFlag{
		Name:  "output,o",
		Value: "",
		Usage: "The .msg file to write",
	},
}

func flags(groups ...[]cli.Flag) []cli.Flag {
	var out []cli.Flag
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func main() {

	app := cli.NewApp()

	app.Name = "outmsg"
	app.Usage = "A tool to write Outlook .msg files"
	app.Version = "1.0.0"
	app.Author = "Etienne Stalmans <etienne@sensepost.com>, @_staaldraad"
	app.Description = `Writes e-mails, appointments and posts as Outlook .msg compound files,
from command line flags, yaml definitions or .eml files.`

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "from,f",
			Value: "",
			Usage: "The sender, \"Name <address>\" or a bare address",
		},
		cli.StringFlag{
			Name:  "culture",
			Value: "",
			Usage: "The culture of the message, such as en-US",
		},
		cli.StringFlag{
			Name:  "account",
			Value: "",
			Usage: "The Outlook account name the message belongs to",
		},
		cli.StringFlag{
			Name:  "config",
			Value: "",
			Usage: "The path to a config file to use",
		},
		cli.BoolFlag{
			Name:  "verbose",
			Usage: "Be verbose and show some of the inner workings",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Be print debug info",
		},
	}

	app.Before = func(c *cli.Context) error {
		utils.Verbosity(c.Bool("verbose"), c.Bool("debug"), os.Stdout, os.Stderr)
		return loadConfig(c)
	}

	app.Commands = []cli.Command{
		{
			Name:    "email",
			Aliases: []string{"e"},
			Usage:   "write an e-mail",
			Flags: flags(recipientFlags, contentFlags, []cli.Flag{
				cli.StringFlag{
					Name:  "html",
					Value: "",
					Usage: "The HTML body",
				},
				cli.StringFlag{
					Name:  "categories",
					Value: "",
					Usage: "Comma separated categories",
				},
				cli.StringFlag{
					Name:  "importance",
					Value: "normal",
					Usage: "low, normal or high",
				},
				cli.StringFlag{
					Name:  "flag",
					Value: "",
					Usage: "A follow up flag, such as \"Follow up\"",
				},
				cli.BoolFlag{
					Name:  "draft",
					Usage: "Write an unsent message",
				},
			}),
			Action: func(c *cli.Context) error {
				if c.GlobalString("from") == "" && config.From == "" && !c.Bool("draft") {
					return cli.NewExitError("A sender is required. Use --from or set it in the config file", 1)
				}
				exit(writeEmail(c))
				return nil
			},
		},
		{
			Name:    "appointment",
			Aliases: []string{"a"},
			Usage:   "write a calendar appointment",
			Flags: flags(recipientFlags, contentFlags, []cli.Flag{
				cli.StringFlag{
					Name:  "location,l",
					Value: "",
					Usage: "Where the appointment takes place",
				},
				cli.StringFlag{
					Name:  "start",
					Value: "",
					Usage: "The start time, such as 2024-03-01 14:00 or RFC3339",
				},
				cli.StringFlag{
					Name:  "end",
					Value: "",
					Usage: "The end time, defaults to start plus --duration",
				},
				cli.DurationFlag{
					Name:  "duration",
					Value: 30 * time.Minute,
					Usage: "The length of the appointment when no --end is given",
				},
				cli.IntFlag{
					Name:  "reminder",
					Value: 15,
					Usage: "Minutes before the start to show a reminder",
				},
				cli.StringFlag{
					Name:  "busy",
					Value: "busy",
					Usage: "free, tentative, busy, oof or elsewhere",
				},
				cli.BoolFlag{
					Name:  "allday",
					Usage: "An all day event",
				},
			}),
			Action: func(c *cli.Context) error {
				if c.String("start") == "" {
					return cli.NewExitError("The start time is required. Use --start", 1)
				}
				exit(writeAppointment(c))
				return nil
			},
		},
		{
			Name:    "post",
			Aliases: []string{"p"},
			Usage:   "write a post for a public folder",
			Flags: flags(contentFlags, []cli.Flag{
				cli.StringFlag{
					Name:  "html",
					Value: "",
					Usage: "The HTML body",
				},
				cli.StringFlag{
					Name:  "categories",
					Value: "",
					Usage: "Comma separated categories",
				},
			}),
			Action: func(c *cli.Context) error {
				exit(writePost(c))
				return nil
			},
		},
		{
			Name:  "eml",
			Usage: "convert an .eml file to .msg",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "input,i",
					Value: "",
					Usage: "The .eml file to convert",
				},
				cli.StringFlag{
					Name:  "output,o",
					Value: "",
					Usage: "The .msg file to write, defaults to the input with a .msg extension",
				},
			},
			Action: func(c *cli.Context) error {
				if c.String("input") == "" {
					return cli.NewExitError("The file to convert is required. Use --input or -i", 1)
				}
				exit(convertEML(c))
				return nil
			},
		},
		{
			Name:  "build",
			Usage: "write the message described in a yaml definition",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "definition,d",
					Value: "",
					Usage: "The yaml file describing the message",
				},
				cli.StringFlag{
					Name:  "output,o",
					Value: "",
					Usage: "The .msg file to write",
				},
			},
			Action: func(c *cli.Context) error {
				if c.String("definition") == "" {
					return cli.NewExitError("A definition is required. Use --definition or -d", 1)
				}
				exit(buildDefinition(c))
				return nil
			},
		},
	}

	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}

	app.Run(os.Args)

}
