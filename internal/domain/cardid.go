package domain

// CardID derives the DOM identity for an app name: every rune outside
// [A-Za-z0-9-_] is replaced with '-'. The dashboard script applies the same
// rule, so a card can be located again by name alone. Two distinct names can
// collapse to the same id, which is why Add refuses registrations whose
// CardID collides with an already configured name.
func CardID(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '-')
		}
	}
	return string(out)
}
