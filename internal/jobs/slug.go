package jobs

import "strings"

// Slug derives the externally visible identifier for a job from its
// title and company: lowercase, non-alphanumeric runs collapsed to a
// single hyphen, leading and trailing hyphens trimmed. Two jobs with the
// same title and company collide to the same slug; lookup resolves the
// collision by first match in posted-date-descending order.
func Slug(title, company string) string {
	var b strings.Builder
	b.Grow(len(title) + len(company) + 1)

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title + " " + company) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}
