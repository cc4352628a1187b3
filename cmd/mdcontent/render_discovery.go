package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mdcontent "github.com/alnah/go-mdcontent"
	"github.com/alnah/go-mdcontent/internal/config"
	"github.com/alnah/go-mdcontent/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md, .markdown or .mdx extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoContent          = errors.New("no content files found")
	ErrOutputConflict     = errors.New("output path written by more than one content file")
)

// Output file names written at the output root.
const (
	manifestFileName  = "manifest.json"
	highlightFileName = "highlight.css"
)

// FileToRender represents a single content file to process.
type FileToRender struct {
	InputPath      string
	OutputPath     string // HTML output
	DescriptorPath string // MDX only: descriptor JSON output
	Dialect        mdcontent.Dialect
	Err            error // set when the file cannot be rendered as discovered
}

// discoverFiles finds all content files to render. Hidden files and
// directories are skipped when walking a directory.
func discoverFiles(inputPath, outputDir string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateContentExtension(inputPath); err != nil {
			return nil, err
		}
		f, err := newFileToRender(inputPath, outputDir, "")
		if err != nil {
			return nil, err
		}
		return []FileToRender{f}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if path != inputPath && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !fileutil.IsContentFile(path) {
			return nil
		}
		f, err := newFileToRender(path, outputDir, inputPath)
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, err
	}

	markOutputConflicts(files)
	return files, nil
}

// markOutputConflicts fails every file whose HTML or descriptor output is
// also written by another file, such as post.md next to post.mdx.
func markOutputConflicts(files []FileToRender) {
	writers := make(map[string][]int)
	for i, f := range files {
		writers[f.OutputPath] = append(writers[f.OutputPath], i)
		if f.DescriptorPath != "" {
			writers[f.DescriptorPath] = append(writers[f.DescriptorPath], i)
		}
	}

	for out, idx := range writers {
		if len(idx) < 2 {
			continue
		}
		inputs := make([]string, len(idx))
		for j, i := range idx {
			inputs[j] = files[i].InputPath
		}
		for _, i := range idx {
			if files[i].Err != nil {
				continue
			}
			files[i].Err = fmt.Errorf("%w: %s (from %s)", ErrOutputConflict, out, strings.Join(inputs, ", "))
		}
	}
}

func newFileToRender(path, outputDir, baseInputDir string) (FileToRender, error) {
	dialect, err := mdcontent.DialectFromPath(path)
	if err != nil {
		return FileToRender{}, err
	}
	outPath := resolveOutputPath(path, outputDir, baseInputDir)
	f := FileToRender{InputPath: path, OutputPath: outPath, Dialect: dialect}
	if dialect == mdcontent.DialectMDX {
		f.DescriptorPath, err = fileutil.ReplaceExtension(outPath, "json")
		if err != nil {
			return FileToRender{}, err
		}
	}
	return f, nil
}

// resolveOutputPath determines the HTML output path for a content file.
// Relative directories under baseInputDir are kept under outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+".html")
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+".html")
		}
	}

	return filepath.Join(outputDir, base+".html")
}

// resolveOutputRoot returns the directory receiving manifest.json and
// highlight.css: the output directory, else the input directory (or the
// input file's directory).
func resolveOutputRoot(inputPath, outputDir string) string {
	if outputDir != "" {
		return outputDir
	}
	if info, err := os.Stat(inputPath); err == nil && info.IsDir() {
		return inputPath
	}
	return filepath.Dir(inputPath)
}

// isHidden reports whether the last path element starts with a dot.
func isHidden(path string) bool {
	name := filepath.Base(path)
	return len(name) > 1 && strings.HasPrefix(name, ".") && name != ".."
}

// validateContentExtension checks that the file is Markdown or MDX.
func validateContentExtension(path string) error {
	if !fileutil.IsContentFile(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
