package sources

import "strings"

const pageMarker = " - Page "

// CleanTitle turns a reader page <title> into an archive base name. The
// trailing " - Page N" part is dropped and characters that do not belong in
// a file name are replaced.
func CleanTitle(raw string) string {
	title := strings.Join(strings.Fields(raw), " ")
	if i := strings.Index(title, pageMarker); i >= 0 {
		title = title[:i]
	}
	title = strings.ReplaceAll(title, ":", " -")
	return sanitizeFilename(title)
}

// sanitizeFilename removes characters that are invalid in filenames
func sanitizeFilename(name string) string {
	invalid := []string{"/", "\\", "*", "?", "\"", "<", ">", "|"}
	result := name
	for _, char := range invalid {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	result = strings.Trim(result, ".")
	return result
}
