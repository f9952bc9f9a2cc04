// Package pipeline walks the preset tree, validates every preset file and
// collects the accepted entries in discovery order.
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/presetgen/internal/apperr"
	"github.com/starford/presetgen/internal/console"
	"github.com/starford/presetgen/internal/models"
	"github.com/starford/presetgen/internal/parser"
	"github.com/starford/presetgen/internal/preset"
	"github.com/starford/presetgen/internal/storage"
)

// Extension selects the files that are treated as presets.
const Extension = ".txt"

// Result is the output of one scan.
type Result struct {
	// Entries are the accepted presets in discovery order.
	Entries []models.Preset
	// Files has one outcome per preset file visited.
	Files []models.FileOutcome
}

// Rejected returns the number of files that did not produce an entry.
func (r *Result) Rejected() int {
	return len(r.Files) - len(r.Entries)
}

// IsPresetFile reports whether name is forwarded to extraction.
func IsPresetFile(name string) bool {
	return strings.HasSuffix(name, Extension)
}

// Analyze scans every immediate subdirectory of the store root. Listing and
// read failures abort the scan; per-file validation problems are logged and
// recorded in the result.
func Analyze(store storage.Provider, logger *slog.Logger) (*Result, error) {
	dirs, err := store.Dirs()
	if err != nil {
		return nil, err
	}
	console.Trace(logger, fmt.Sprintf("found %d directories", len(dirs)))

	res := &Result{}
	for _, dir := range dirs {
		console.Trace(logger, "reading dir --> "+dir)

		files, err := store.Files(dir)
		if err != nil {
			return nil, err
		}
		console.Trace(logger, fmt.Sprintf("found %d files", len(files)))

		for _, file := range files {
			if !IsPresetFile(file) {
				continue
			}
			data, err := store.Read(file)
			if err != nil {
				return nil, err
			}
			out := process(logger, file, data)
			if out.entry != nil {
				res.Entries = append(res.Entries, *out.entry)
			}
			res.Files = append(res.Files, out.FileOutcome)
		}
	}
	return res, nil
}

type fileResult struct {
	models.FileOutcome
	entry *models.Preset
}

func process(logger *slog.Logger, file string, data []byte) fileResult {
	out := fileResult{FileOutcome: models.FileOutcome{
		Path:     file,
		Checksum: checksum(data),
	}}

	v := preset.Validate(parser.Decode(data))

	if len(v.Errors) == 1 && errors.Is(v.Errors[0], apperr.ErrNoContent) {
		logger.Error(fmt.Sprintf("file '%s' does not contain valid data", file))
		out.Problems = []string{v.Errors[0].Error()}
		return out
	}

	for _, err := range v.Errors {
		logger.Error(err.Error(), slog.String("file", file))
		out.Problems = append(out.Problems, err.Error())
	}
	for _, w := range v.Warnings {
		logger.Warn(w.Error()+". Value will be set to 'false'", slog.String("file", file))
		out.Problems = append(out.Problems, w.Error())
	}

	if !v.Accepted() {
		logger.Warn(fmt.Sprintf("file '%s' rejected", file))
		return out
	}

	console.Trace(logger, "storing data to the list")
	out.Accepted = true
	entry := v.Preset
	out.entry = &entry
	return out
}

func checksum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
