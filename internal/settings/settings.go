// Package settings holds the mutable, persisted collector configuration.
//
// Unlike the static application config, these values are rewritten by the
// service itself: resolving the collector note persists its path, and the
// rename rule keeps that path in sync when the note moves. Every mutation
// goes through Store.Update so there is exactly one write path.
package settings

import (
	"errors"
	"path"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultCollectorPath is used when no collector path has been configured.
const DefaultCollectorPath = "trash.md"

// Settings is the persisted collector configuration.
type Settings struct {
	// CollectorPath is the vault-relative path of the collector note.
	// Empty means unset; the resolver falls back to DefaultCollectorPath
	// and persists whatever it resolved.
	CollectorPath string `yaml:"collector_path" json:"collector_path"`

	// AddTimestamp prefixes each appended block with a timestamp line.
	AddTimestamp bool `yaml:"add_timestamp" json:"add_timestamp"`

	// TimestampFormat is a template using the tokens YYYY|MM|DD|HH|mm.
	TimestampFormat string `yaml:"timestamp_format" json:"timestamp_format"`

	// DestinationFolder receives archive notes; empty means vault root.
	DestinationFolder string `yaml:"destination_folder" json:"destination_folder"`

	// PlaceholderFormat is the template for default archive titles.
	PlaceholderFormat string `yaml:"placeholder_format" json:"placeholder_format"`
}

// Defaults returns the settings used before any file has been written.
func Defaults() Settings {
	return Settings{
		CollectorPath:     "",
		AddTimestamp:      false,
		TimestampFormat:   "YYYY-MM-DD HH:mm",
		DestinationFolder: "",
		PlaceholderFormat: "YYYY-MM-DD HH-mm",
	}
}

// Validate validates the settings.
func (s *Settings) Validate() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.CollectorPath, validation.By(notePathRule)),
		validation.Field(&s.DestinationFolder, validation.By(folderPathRule)),
	)
}

// notePathRule accepts an empty path or a vault-relative .md path.
func notePathRule(value any) error {
	p, _ := value.(string)
	if p == "" {
		return nil
	}
	if err := vaultRelative(p); err != nil {
		return err
	}
	if !strings.HasSuffix(p, ".md") {
		return errors.New("must end with .md")
	}
	return nil
}

// folderPathRule accepts an empty folder or a vault-relative directory path.
func folderPathRule(value any) error {
	p, _ := value.(string)
	if p == "" {
		return nil
	}
	return vaultRelative(p)
}

func vaultRelative(p string) error {
	if filepath.IsAbs(p) {
		return errors.New("must be vault-relative")
	}
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return errors.New("must not escape the vault")
	}
	return nil
}
