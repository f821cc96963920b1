package gitops

import (
	"fmt"
	"strings"
)

// statusDescriptions maps porcelain two-letter change codes to prose.
var statusDescriptions = map[string]string{
	"??": "Untracked",
	"A ": "Added",
	"M ": "Modified",
	" M": "Modified (not staged)",
	"D ": "Deleted",
	" D": "Deleted (not staged)",
	"R ": "Renamed",
	"C ": "Copied",
	"AM": "Added & Modified",
}

// parseStatus renders `git status --porcelain -b` output for a directory.
func parseStatus(directory, porcelain string) string {
	lines := strings.Split(strings.TrimRight(porcelain, "\n"), "\n")
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return fmt.Sprintf("Git repository in '%s' is clean (no changes)", directory)
	}

	branchInfo := "Unknown branch"
	rest := lines
	if strings.HasPrefix(lines[0], "## ") {
		branchInfo = strings.TrimPrefix(lines[0], "## ")
		rest = lines[1:]
	}

	var changes []string
	for _, line := range rest {
		if strings.TrimSpace(line) == "" || len(line) < 3 {
			continue
		}
		code := line[:2]
		filename := line[3:]
		desc, ok := statusDescriptions[code]
		if !ok {
			desc = fmt.Sprintf("Status: %s", code)
		}
		changes = append(changes, fmt.Sprintf("  %s: %s", desc, filename))
	}

	if len(changes) == 0 {
		return fmt.Sprintf("Git Status for '%s':\nBranch: %s\n\nNo changes detected", directory, branchInfo)
	}
	return fmt.Sprintf("Git Status for '%s':\nBranch: %s\n\nChanges:\n%s",
		directory, branchInfo, strings.Join(changes, "\n"))
}

// parseBranches renders local and remote branch listings.
func parseBranches(directory, local, remote string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Git Branches for '%s':\n\n", directory)

	if strings.TrimSpace(local) != "" {
		b.WriteString("Local branches:\n")
		for _, line := range strings.Split(strings.TrimSpace(local), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "*") {
				fmt.Fprintf(&b, "  %s (current)\n", line)
			} else {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
	}

	if strings.TrimSpace(remote) != "" {
		b.WriteString("\nRemote branches:\n")
		for _, line := range strings.Split(strings.TrimSpace(remote), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "origin/HEAD") {
				continue
			}
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	return b.String()
}

// keyConfigPrefixes pick the settings surfaced first by git_config.
var keyConfigPrefixes = []string{
	"user.name", "user.email", "core.editor", "init.defaultbranch", "remote.origin.url",
}

// maxOtherConfigs caps the low-interest remainder of the config listing.
const maxOtherConfigs = 10

// parseConfig renders `git config --list` output, key settings first.
func parseConfig(directory, listing string) string {
	var important, other []string
	for _, line := range strings.Split(strings.TrimSpace(listing), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		entry := fmt.Sprintf("  %s = %s", key, value)
		isKey := false
		for _, prefix := range keyConfigPrefixes {
			if strings.Contains(strings.ToLower(key), prefix) {
				isKey = true
				break
			}
		}
		if isKey {
			important = append(important, entry)
		} else {
			other = append(other, entry)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Git Configuration for '%s':\n\n", directory)
	if len(important) > 0 {
		b.WriteString("Key Settings:\n" + strings.Join(important, "\n") + "\n\n")
	}
	if len(other) > 0 {
		shown := other
		if len(shown) > maxOtherConfigs {
			shown = shown[:maxOtherConfigs]
		}
		fmt.Fprintf(&b, "Other Settings (%d total):\n%s", len(other), strings.Join(shown, "\n"))
		if len(other) > maxOtherConfigs {
			fmt.Fprintf(&b, "\n  ... and %d more", len(other)-maxOtherConfigs)
		}
	}
	return b.String()
}
