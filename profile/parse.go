package profile

import "strings"

// The configuration text is untrusted free-form content from import or
// sync sources. Nothing in this file returns an error; malformed input
// degrades to "not found".

// ExtractDirective scans data for the first line starting with
// "setenv <key> " and returns the remaining tokens rejoined with single
// spaces, or "" when no such line exists.
func ExtractDirective(data, key string) string {
	prefix := "setenv " + key + " "

	for _, line := range strings.Split(data, "\n") {
		if !strings.HasPrefix(line, prefix) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			return ""
		}
		return strings.Join(fields[2:], " ")
	}

	return ""
}

// ExtractBlock returns the substring from the first occurrence of
// openTag through the end of the first occurrence of closeTag,
// inclusive. A tag occurring at offset 0 is treated as absent.
func ExtractBlock(data, openTag, closeTag string) string {
	block, _ := CutBlock(data, openTag, closeTag)
	return block
}

// CutBlock extracts a tag block like ExtractBlock and additionally
// returns the text with the block spliced out. When the block is not
// recognized the original text is returned unchanged.
func CutBlock(data, openTag, closeTag string) (string, string) {
	sIndex := strings.Index(data, openTag)
	eIndex := strings.Index(data, closeTag)
	if sIndex <= 0 || eIndex <= 0 {
		return "", data
	}

	end := eIndex + len(closeTag)
	if end > len(data) || sIndex >= end {
		return "", data
	}

	return data[sIndex:end], data[:sIndex] + data[end:]
}

// AuthType classifies the interactive credential factors the profile's
// configuration requires. An explicit password mode always wins. A
// profile without an auth-user-pass directive, or with one carrying an
// inline file argument, needs no interactive credentials.
func (p *Profile) AuthType() string {
	if p.PasswordMode != "" {
		return p.PasswordMode
	}

	n := strings.Index(p.Data, "auth-user-pass")
	if n == -1 {
		return ""
	}

	line := p.Data[n:]
	if i := strings.IndexByte(line, '\n'); i != -1 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) > 1 && fields[1] != "" {
		return ""
	}

	if p.User != "" {
		return "otp"
	}
	return "username_password"
}

// parseData recomputes the fields cached from the configuration text.
// Must run every time Data is replaced.
func (p *Profile) parseData() {
	p.UVName = ExtractDirective(p.Data, "UV_NAME")
}
