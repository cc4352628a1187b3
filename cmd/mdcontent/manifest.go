package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	mdcontent "github.com/alnah/go-mdcontent"
	"github.com/alnah/go-mdcontent/internal/dateutil"
	"github.com/alnah/go-mdcontent/internal/fileutil"
)

// ManifestEntry describes one rendered document in manifest.json.
// Paths are slash-separated and relative to the manifest directory; a source
// outside it is relative to the content root instead.
type ManifestEntry struct {
	Source      string              `json:"source"`
	Output      string              `json:"output"`
	Descriptor  string              `json:"descriptor,omitempty"`
	Dialect     mdcontent.Dialect   `json:"dialect"`
	Title       string              `json:"title"`
	Date        string              `json:"date,omitempty"`        // RFC 3339
	DisplayDate string              `json:"displayDate,omitempty"` // formatted with output.dateFormat
	ReadingTime int                 `json:"readingTime"`
	Headings    []mdcontent.Heading `json:"headings"`

	sortDate time.Time
}

// manifestLayout locates manifest paths and formats dates.
type manifestLayout struct {
	root        string // directory holding manifest.json
	contentRoot string // input directory, or the input file's directory
	dateFormat  string
}

// buildManifest collects the successful results, newest first. Documents
// without a date follow the dated ones, ordered by source path. A date that
// cannot be parsed is left out of its entry and reported as a warning.
func buildManifest(results []RenderResult, layout manifestLayout) ([]ManifestEntry, []error, error) {
	entries := make([]ManifestEntry, 0, len(results))
	var warnings []error
	for _, r := range results {
		if r.Err != nil || r.Result == nil {
			continue
		}
		e := ManifestEntry{
			Source:      relSlash(r.InputPath, layout.root, layout.contentRoot),
			Output:      relSlash(r.OutputPath, layout.root),
			Dialect:     r.Result.Dialect,
			Title:       r.Result.Title(),
			ReadingTime: r.Result.ReadingTime,
			Headings:    r.Result.Headings,
		}
		if r.DescriptorPath != "" {
			e.Descriptor = relSlash(r.DescriptorPath, layout.root)
		}
		if e.Headings == nil {
			e.Headings = []mdcontent.Heading{}
		}

		if raw, ok := r.Result.Frontmatter["date"]; ok && raw != nil {
			t, err := dateutil.ParseDate(raw)
			if err != nil {
				warnings = append(warnings, fmt.Errorf("%s: %w (date left out of manifest)", r.InputPath, err))
			} else {
				display, err := dateutil.FormatDate(t, layout.dateFormat)
				if err != nil {
					return nil, nil, err
				}
				e.sortDate = t
				e.Date = t.Format(time.RFC3339)
				e.DisplayDate = display
			}
		}
		entries = append(entries, e)
	}

	slices.SortStableFunc(entries, compareEntries)
	return entries, warnings, nil
}

// compareEntries orders dated entries newest first, then undated entries,
// breaking ties by source path.
func compareEntries(a, b ManifestEntry) int {
	switch {
	case a.sortDate.IsZero() != b.sortDate.IsZero():
		if a.sortDate.IsZero() {
			return 1
		}
		return -1
	case !a.sortDate.Equal(b.sortDate):
		return b.sortDate.Compare(a.sortDate)
	}
	return strings.Compare(a.Source, b.Source)
}

// writeManifest writes entries as indented JSON.
func writeManifest(path string, entries []ManifestEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodeOutput, err)
	}
	if err := fileutil.WriteFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}
	return nil
}

// relSlash returns path relative to the first root containing it, with
// forward slashes. A path under none of the roots is reduced to its base name
// so that no absolute path reaches the manifest.
func relSlash(path string, roots ...string) string {
	for _, root := range roots {
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return filepath.Base(path)
}
