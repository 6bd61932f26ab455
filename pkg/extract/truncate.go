package extract

// Truncate caps s at max characters, keeping head content. The cut never
// lands inside a multi-byte character: the cap counts runes, not bytes.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
