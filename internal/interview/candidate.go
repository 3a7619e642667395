package interview

import "strings"

const (
	defaultCandidateName = "Candidate"
	nameScanLines        = 10
	minNameLength        = 3
	maxNameLength        = 59
	maxNameWords         = 4
)

// ExtractCandidateName picks a likely display name from the top of a resume:
// a short line with at most four words within the first ten non-empty lines.
func ExtractCandidateName(resumeText string) string {
	if strings.TrimSpace(resumeText) == "" {
		return defaultCandidateName
	}

	scanned := 0
	for _, line := range strings.Split(resumeText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		scanned++
		if scanned > nameScanLines {
			break
		}

		words := len(strings.Fields(line))
		if len(line) >= minNameLength && len(line) <= maxNameLength && words >= 1 && words <= maxNameWords {
			return line
		}
	}

	return defaultCandidateName
}
