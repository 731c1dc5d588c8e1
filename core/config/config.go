package config

import (
	_ "embed"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

//go:embed default/config.yaml
var defaultConfigData []byte

const (
	// ConfigurationName is the name of the configuration file inside
	// the configuration directory.
	ConfigurationName = "config.yaml"
)

// Configuration holds the session settings.
type Configuration struct {
	configFs afero.Fs

	// Prompt is rendered before each input line when standard input is
	// a terminal. The escapes \u, \h, \w and \$ expand to the user,
	// hostname, working directory and privilege marker.
	Prompt string `json:"prompt" validate:"required"`

	// HomeDir is where "cd" without arguments goes. Empty selects the
	// user's home directory.
	HomeDir string `json:"home_dir"`

	// MaxTokens bounds the token stream of one statement. Tokens past
	// the bound are silently dropped.
	MaxTokens int `json:"max_tokens" validate:"gte=1"`

	// MaxArgs bounds one command's argument list. Exceeding it is a
	// syntax error.
	MaxArgs int `json:"max_args" validate:"gte=1"`

	// AuditLog names the execution log file relative to the
	// configuration directory. Empty disables auditing.
	AuditLog string `json:"audit_log"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		c.configFs = afero.NewOsFs()
	}
	return c.configFs
}

// Home resolves the directory "cd" uses when called without arguments.
func (c *Configuration) Home() string {
	if c.HomeDir != "" {
		return c.HomeDir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "/"
}

// OpenAuditLog opens the audit log in an append only state, or returns
// (nil, nil) when auditing is disabled.
func (c *Configuration) OpenAuditLog() (afero.File, error) {
	if c.AuditLog == "" {
		return nil, nil
	}
	return c.fs().OpenFile(c.AuditLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadAuditLog opens the audit log for reading.
func (c *Configuration) ReadAuditLog() (afero.File, error) {
	return c.fs().OpenFile(c.AuditLog, os.O_RDONLY, 0600)
}

// Default returns the built-in configuration. It panics on failure
// because the embedded default must always parse.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
