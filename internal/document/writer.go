// Package document renders the aggregated presets as presets.xml.
package document

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/gofrs/flock"

	"github.com/starford/presetgen/internal/models"
	"github.com/starford/presetgen/internal/storage"
)

// Declaration is the first line of every document.
const Declaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

const (
	rootElement   = "presets"
	presetElement = "preset"
)

// Encode writes the document for presets to w. Each preset becomes one
// self-closing element, indented by a tab, with its attributes in a fixed order.
func Encode(w io.Writer, presets []models.Preset) error {
	bw := bufio.NewWriter(w)

	bw.WriteString(Declaration)
	bw.WriteByte('\n')

	if len(presets) == 0 {
		bw.WriteString("<" + rootElement + " />\n")
		return bw.Flush()
	}

	bw.WriteString("<" + rootElement + ">\n")
	for _, p := range presets {
		bw.WriteString("\t<" + presetElement)
		for _, a := range attributes(p) {
			bw.WriteByte(' ')
			bw.WriteString(a[0])
			bw.WriteString(`="`)
			if err := xml.EscapeText(bw, []byte(a[1])); err != nil {
				return err
			}
			bw.WriteByte('"')
		}
		bw.WriteString(" />\n")
	}
	bw.WriteString("</" + rootElement + ">\n")
	return bw.Flush()
}

func attributes(p models.Preset) [][2]string {
	return [][2]string{
		{"name", p.Name},
		{"ip", p.IP},
		{"port", p.Port},
		{"client_version", p.ClientVersion},
		{"encryption", strconv.FormatBool(p.Encryption)},
	}
}

// WriteFile renders the document and replaces path with it in one step.
// The write is serialized against other generators through path + ".lock".
func WriteFile(path string, presets []models.Preset) error {
	var buf bytes.Buffer
	if err := Encode(&buf, presets); err != nil {
		return fmt.Errorf("document: encode: %w", err)
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("document: lock %s: %w", path, err)
	}
	defer lock.Unlock() //nolint:errcheck

	if err := storage.WriteAtomic(path, buf.Bytes()); err != nil {
		return fmt.Errorf("document: write %s: %w", path, err)
	}
	return nil
}

// Decode parses a document produced by Encode.
func Decode(r io.Reader) (*models.Document, error) {
	var doc models.Document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("document: decode: %w", err)
	}
	return &doc, nil
}
