package hints

// Notes:
// - ForWatch tests cannot use t.Parallel() because they modify the
//   package-level IsCI variable.

import (
	"strings"
	"testing"
)

func TestForWatch_InCI(t *testing.T) {
	orig := IsCI
	defer func() { IsCI = orig }()
	IsCI = func() bool { return true }

	hint := ForWatch()

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "CI") {
		t.Error("expected CI suggestion")
	}
	if !strings.Contains(hint, "max_user_watches") {
		t.Error("expected inotify suggestion")
	}
}

func TestForWatch_Local(t *testing.T) {
	orig := IsCI
	defer func() { IsCI = orig }()
	IsCI = func() bool { return false }

	hint := ForWatch()

	if strings.Contains(hint, "CI") {
		t.Errorf("unexpected CI suggestion outside CI: %q", hint)
	}
	if !strings.Contains(hint, "max_user_watches") {
		t.Error("expected inotify suggestion")
	}
}

func TestIsCI_FromEnvironment(t *testing.T) {
	for _, key := range []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL"} {
		t.Setenv(key, "")
	}
	if IsCI() {
		t.Fatal("IsCI() = true with empty environment")
	}

	t.Setenv("GITHUB_ACTIONS", "true")
	if !IsCI() {
		t.Error("IsCI() = false with GITHUB_ACTIONS set")
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains string
	}{
		{
			name:     "empty paths",
			paths:    []string{},
			contains: "--config",
		},
		{
			name:     "with user config path",
			paths:    []string{"./site.yaml", "/home/u/.config/go-mdcontent/site.yaml"},
			contains: "or create /home/u/.config/go-mdcontent/site.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			if !strings.Contains(hint, "hint:") {
				t.Error("expected hint prefix")
			}
			if !strings.Contains(hint, tt.contains) {
				t.Errorf("expected hint to contain %q, got %q", tt.contains, hint)
			}
		})
	}
}

func TestForStyleNotFound(t *testing.T) {
	t.Parallel()

	if hint := ForStyleNotFound(nil); hint != "" {
		t.Errorf("expected empty hint, got %q", hint)
	}
	if hint := ForStyleNotFound([]string{"github", "monokai"}); !strings.Contains(hint, "github, monokai") {
		t.Errorf("expected style list, got %q", hint)
	}
}

func TestFormat_Consistency(t *testing.T) {
	t.Parallel()

	hints := map[string]string{
		"ForOutputDirectory":      ForOutputDirectory(),
		"ForSiteOrigin":           ForSiteOrigin(),
		"ForFrontmatter":          ForFrontmatter(),
		"ForUnresolvedReference":  ForUnresolvedReference(),
		"ForInvalidExpression":    ForInvalidExpression(),
		"ForInvalidComponent":     ForInvalidComponent(),
		"ForESM":                  ForESM(),
		"ForConfigNotFound(nil)":  ForConfigNotFound(nil),
		"ForStyleNotFound(style)": ForStyleNotFound([]string{"github"}),
	}

	for name, h := range hints {
		if !strings.HasPrefix(h, "\n  hint: ") {
			t.Errorf("%s format inconsistent: %q", name, h)
		}
		if strings.Count(h, "\n") != 1 {
			t.Errorf("%s spans several lines: %q", name, h)
		}
	}
}
