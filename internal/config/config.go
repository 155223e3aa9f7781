package config

import (
	"encoding/json"
	"errors"
	"os"
	"os/user"
	"path/filepath"
)

// DefaultDateFormat mirrors the C locale "%c" rendering.
const DefaultDateFormat = "Mon Jan _2 15:04:05 2006"

type Config struct {
	TaskDir    string `json:"taskDir"`    // directory holding one file per task
	HooksDir   string `json:"hooksDir"`
	ExportDir  string `json:"exportDir"`  // default archive destination
	Journal    string `json:"journal"`    // sqlite journal path; "-" disables it
	DateFormat string `json:"dateFormat"`
	Debug      bool   `json:"debug"`
}

func Default() Config {
	return Config{
		TaskDir:    filepath.Join(UserHome(), ".auditor"),
		HooksDir:   filepath.Join(UserHome(), ".config", "auditor", "hooks"),
		ExportDir:  "",
		Journal:    "",
		DateFormat: DefaultDateFormat,
		Debug:      false,
	}
}

// Path is where the standalone program looks for its config file.
func Path() string {
	return filepath.Join(UserHome(), ".config", "auditor.json")
}

func Load(path string, out *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		return err
	}
	if c.TaskDir == "" {
		c.TaskDir = out.TaskDir
	}
	if c.HooksDir == "" {
		c.HooksDir = out.HooksDir
	}
	if c.DateFormat == "" {
		c.DateFormat = out.DateFormat
	}
	*out = c
	return nil
}

func Save(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// JournalPath resolves the journal location. Empty means the default file
// inside the task directory; "-" disables the journal.
func (c Config) JournalPath() string {
	switch c.Journal {
	case "-":
		return ""
	case "":
		return filepath.Join(c.TaskDir, "journal.db")
	default:
		return c.Journal
	}
}

// UserHome prefers $HOME and falls back to the account database.
func UserHome() string {
	if h := os.Getenv("HOME"); h != "" {
		return h
	}
	if u, err := user.Current(); err == nil && u.HomeDir != "" {
		return u.HomeDir
	}
	if h, err := os.UserHomeDir(); err == nil {
		return h
	}
	return "."
}

func EnsureDir(path string) error {
	if path == "" {
		return errors.New("empty path")
	}
	return os.MkdirAll(path, 0o755)
}
