// Package models defines the domain types for presetgen.
package models

import "encoding/xml"

// Preset is one validated server-connection profile.
type Preset struct {
	Name          string `xml:"name,attr" json:"name"`
	IP            string `xml:"ip,attr" json:"ip"`
	Port          string `xml:"port,attr" json:"port"`
	ClientVersion string `xml:"client_version,attr" json:"client_version"`
	Encryption    bool   `xml:"encryption,attr" json:"encryption"`
}

// Document is the decoded form of presets.xml.
type Document struct {
	XMLName xml.Name `xml:"presets"`
	Presets []Preset `xml:"preset"`
}

// FileOutcome records what happened to a single preset file during a run.
type FileOutcome struct {
	Path     string   `json:"path"`
	Checksum string   `json:"checksum"`
	Accepted bool     `json:"accepted"`
	Problems []string `json:"problems,omitempty"`
}
