package dustdoc

import (
	"strconv"
	"strings"
	"unicode"
)

// Section is a heading of a generated page, used for navigation.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// AnchorSet hands out URL-safe anchors that are unique within one page.
// Repeated titles get numeric suffixes. The zero value is ready to use.
type AnchorSet struct {
	counts map[string]int
}

// Anchor returns the anchor for title, suffixed when the same anchor was
// handed out before.
func (s *AnchorSet) Anchor(title string) string {
	if s.counts == nil {
		s.counts = make(map[string]int)
	}

	base := generateAnchor(title)
	if base == "" {
		base = "section"
	}

	count, exists := s.counts[base]
	if !exists {
		s.counts[base] = 1
		return base
	}
	s.counts[base]++
	return base + "-" + strconv.Itoa(count)
}

// generateAnchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func generateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
