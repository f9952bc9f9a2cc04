// Package preset turns the text of one preset file into a validated entry.
package preset

import (
	"errors"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/presetgen/internal/apperr"
	"github.com/starford/presetgen/internal/models"
	"github.com/starford/presetgen/internal/parser"
)

// Recognized keys.
const (
	KeyName          = "name"
	KeyIP            = "ip"
	KeyPort          = "port"
	KeyClientVersion = "client_version"
	KeyEncryption    = "encryption"
)

// requiredKeys fixes the order in which field errors are reported.
var requiredKeys = []string{KeyName, KeyIP, KeyPort, KeyClientVersion}

// Verdict is the outcome of validating one file.
type Verdict struct {
	Preset models.Preset
	// Errors reject the file: apperr.ErrNoContent or *apperr.FieldError.
	Errors []error
	// Warnings never reject the file.
	Warnings []error
}

// Accepted reports whether the file produced an entry.
func (v Verdict) Accepted() bool {
	return len(v.Errors) == 0
}

// fields holds the raw extracted values, tagged by key for ozzo's error map.
type fields struct {
	Name          string `json:"name"`
	IP            string `json:"ip"`
	Port          string `json:"port"`
	ClientVersion string `json:"client_version"`
}

// Validate extracts and checks the five preset fields from content.
func Validate(content string) Verdict {
	if parser.Blank(content) {
		return Verdict{Errors: []error{apperr.ErrNoContent}}
	}

	var f fields
	f.Name, _ = parser.Lookup(content, KeyName)
	f.IP, _ = parser.Lookup(content, KeyIP)
	f.Port, _ = parser.Lookup(content, KeyPort)
	f.ClientVersion, _ = parser.Lookup(content, KeyClientVersion)

	var v Verdict
	if err := f.validate(); err != nil {
		var errs validation.Errors
		if !errors.As(err, &errs) {
			return Verdict{Errors: []error{err}}
		}
		raw := map[string]string{
			KeyName:          f.Name,
			KeyIP:            f.IP,
			KeyPort:          f.Port,
			KeyClientVersion: f.ClientVersion,
		}
		for _, key := range requiredKeys {
			if _, failed := errs[key]; failed {
				v.Errors = append(v.Errors, &apperr.FieldError{
					Field:   key,
					Value:   raw[key],
					Present: raw[key] != "",
				})
			}
		}
	}

	encRaw, encPresent := parser.Lookup(content, KeyEncryption)
	encryption, ok := ParseEncryption(encRaw, encPresent)
	if !ok {
		v.Warnings = append(v.Warnings, &apperr.FieldError{
			Field:   KeyEncryption,
			Value:   encRaw,
			Present: encPresent,
		})
	}

	if !v.Accepted() {
		return v
	}
	v.Preset = models.Preset{
		Name:          f.Name,
		IP:            f.IP,
		Port:          f.Port,
		ClientVersion: f.ClientVersion,
		Encryption:    encryption,
	}
	return v
}

func (f *fields) validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.IP, validation.Required),
		validation.Field(&f.Port, validation.Required, validation.By(isPort)),
		validation.Field(&f.ClientVersion, validation.Required),
	)
}

var errPortRange = validation.NewError("validation_port_range", "must be an integer between 0 and 65535")

func isPort(value interface{}) error {
	s, _ := value.(string)
	if _, ok := ParsePort(s); !ok {
		return errPortRange
	}
	return nil
}

// ParsePort parses s as an unsigned 16-bit integer. Surrounding whitespace,
// a leading '+' and a negative zero are tolerated.
func ParsePort(s string) (uint16, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch s[0] {
	case '+':
		s = s[1:]
	case '-':
		if s[1:] == "" || strings.Trim(s[1:], "0") != "" {
			return 0, false
		}
		return 0, true
	}
	if s == "" || s[0] == '+' || s[0] == '-' {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, false
	}
	return uint16(n), true
}

// ParseEncryption interprets the encryption field. Exactly "yes" and "no" are
// recognized, then "true"/"false" in any case with surrounding whitespace.
// Anything else, including an absent value, yields false and ok == false.
func ParseEncryption(value string, present bool) (enabled, ok bool) {
	if !present {
		return false, false
	}
	switch value {
	case "yes":
		return true, true
	case "no":
		return false, true
	}
	switch v := strings.TrimSpace(value); {
	case strings.EqualFold(v, "true"):
		return true, true
	case strings.EqualFold(v, "false"):
		return false, true
	}
	return false, false
}
