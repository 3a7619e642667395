package screening

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-()]{8,}\d`)

	// Domains that show up in resume templates, never in real contacts.
	placeholderDomains = []string{"example.com", "test.com", "email.com"}
)

var (
	mangledAtPattern  = regexp.MustCompile(`(?i)\s*(\[at\]|\(at\))\s*`)
	mangledDotPattern = regexp.MustCompile(`(?i)\s*(\[dot\]|\(dot\))\s*`)
)

// ExtractEmail finds the first plausible contact email in the resume text.
// Obfuscated spellings like "name [at] host [dot] com" are unfolded first,
// template placeholder domains are rejected.
func ExtractEmail(text string) string {
	candidates := emailPattern.FindAllString(text, -1)
	if len(candidates) == 0 {
		demangled := mangledAtPattern.ReplaceAllString(text, "@")
		demangled = mangledDotPattern.ReplaceAllString(demangled, ".")
		candidates = emailPattern.FindAllString(demangled, -1)
	}

	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		if isPlaceholder(lower) {
			continue
		}
		return lower
	}
	return ""
}

func isPlaceholder(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return true
	}
	domain := email[at+1:]
	for _, placeholder := range placeholderDomains {
		if domain == placeholder {
			return true
		}
	}
	return false
}

// ExtractPhone finds the first phone-looking number in the resume text.
func ExtractPhone(text string) string {
	match := phonePattern.FindString(text)
	return strings.TrimSpace(match)
}
