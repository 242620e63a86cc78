package utils

//Config containing the defaults applied to every message written in a session
type Config struct {
	From     string
	Culture  string
	Account  string
	Output   string
	Verbose  bool
	Reminder int
}

//YamlConfig holds the data that a user supplies with a yaml config file
type YamlConfig struct {
	From     string `yaml:"from"`
	Culture  string `yaml:"culture"`
	Account  string `yaml:"account"`
	Output   string `yaml:"output"`
	Reminder int    `yaml:"reminder"`
}

// Merge copies every value set in the yaml config over the session config
func (c *Config) Merge(y YamlConfig) {
	if y.From != "" {
		c.From = y.From
	}
	if y.Culture != "" {
		c.Culture = y.Culture
	}
	if y.Account != "" {
		c.Account = y.Account
	}
	if y.Output != "" {
		c.Output = y.Output
	}
	if y.Reminder != 0 {
		c.Reminder = y.Reminder
	}
}
