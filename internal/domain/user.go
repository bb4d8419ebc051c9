// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxDisplayNameLen  = 36
	DefaultDisplayName = "guest"
)

var (
	ErrDisplayNameTooLong = errors.New("display name too long")
	ErrDisplayNameEmpty   = errors.New("display name empty")
)

// ValidateDisplayName reports why a name cannot be shown to other members.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrDisplayNameEmpty
	}
	if utf8.RuneCountInString(name) > MaxDisplayNameLen {
		return ErrDisplayNameTooLong
	}
	return nil
}

// NormalizeDisplayName never rejects: empty names become the guest name and
// long names are cut to MaxDisplayNameLen runes.
func NormalizeDisplayName(name string) string {
	name = strings.TrimSpace(name)
	switch ValidateDisplayName(name) {
	case ErrDisplayNameEmpty:
		return DefaultDisplayName
	case ErrDisplayNameTooLong:
		return string([]rune(name)[:MaxDisplayNameLen])
	}
	return name
}
