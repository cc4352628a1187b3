// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// IsCI detects common CI environments.
var IsCI = func() bool {
	return os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""
}

// ForWatch returns hints for file watcher setup errors.
func ForWatch() string {
	var hints []string
	if IsCI() {
		hints = append(hints, "--watch is meant for local authoring; drop it in CI")
	}
	hints = append(hints, "on Linux, raise fs.inotify.max_user_watches for large trees")
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mdcontent/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mdcontent") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for unknown highlight styles.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForSiteOrigin returns hints for an unusable --site-origin value.
func ForSiteOrigin() string {
	return format("use an absolute URL such as https://example.com")
}

// ForFrontmatter returns hints for frontmatter decoding errors.
func ForFrontmatter() string {
	return format("frontmatter must be a YAML mapping between two --- lines")
}

// ForUnresolvedReference returns hints for MDX expressions naming unknown values.
func ForUnresolvedReference() string {
	return format("define the value with --scope FILE or reference {frontmatter.KEY}")
}

// ForInvalidExpression returns hints for unsupported MDX expressions.
func ForInvalidExpression() string {
	return format("expressions accept literals and paths like {site.title}; move logic into a component")
}

// ForInvalidComponent returns hints for malformed MDX component tags.
func ForInvalidComponent() string {
	return format("close <Name> with </Name> in the same block, or write <Name />")
}

// ForESM returns hints for import/export statements in MDX.
func ForESM() string {
	return format("import and export are not supported; the host supplies components")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
