package guardian

import (
	"fmt"
	"strings"
)

// DefaultFiles are the deployment files reviewed when none are given.
var DefaultFiles = []string{"cloudbuild.yaml", "Dockerfile", ".gcloudignore"}

// FileEntry is a single file of the bundle. ReadErr is set when the file exists but
// could not be read; it is still part of the bundle.
type FileEntry struct {
	Name    string
	Content string
	ReadErr error
}

// Bundle is the ordered set of configuration files sent for review.
type Bundle struct {
	Entries []FileEntry
}

func (b Bundle) Empty() bool { return len(b.Entries) == 0 }

// Names lists the bundled file names in order.
func (b Bundle) Names() []string {
	out := make([]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		out = append(out, e.Name)
	}
	return out
}

// String renders the bundle the way the review prompt expects it.
func (b Bundle) String() string {
	parts := make([]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		if e.ReadErr != nil {
			parts = append(parts, fmt.Sprintf("--- FILE: %s ---\n[Could not read file: %v]", e.Name, e.ReadErr))
			continue
		}
		parts = append(parts, fmt.Sprintf("--- FILE: %s ---\n%s", e.Name, e.Content))
	}
	return strings.Join(parts, "\n\n")
}
