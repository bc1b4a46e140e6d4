package utils

import "strings"

// StripCodeFence returns the body of the first Markdown code block in s,
// preferring a ```json block. Text without fences comes back trimmed.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if _, after, ok := strings.Cut(s, "```json"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	if _, after, ok := strings.Cut(s, "```"); ok {
		body, _, _ := strings.Cut(after, "```")
		return strings.TrimSpace(body)
	}
	return s
}

// StripDataURI drops a "data:image/...;base64," prefix if present.
func StripDataURI(b64 string) string {
	if strings.HasPrefix(b64, "data:image") {
		if _, data, ok := strings.Cut(b64, ","); ok {
			return data
		}
	}
	return b64
}
