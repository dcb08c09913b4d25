package profile

import (
	"regexp"
	"strings"
)

// curpPattern is the structural shape of a CURP: four letters, six digits,
// sex marker, state code, three consonants, homoclave, check digit.
var curpPattern = regexp.MustCompile(`^[A-Z]{4}[0-9]{6}[HM][A-Z]{2}[B-DF-HJ-NP-TV-Z]{3}[A-Z0-9][0-9]$`)

// rfcPattern covers both moral (3 letters) and physical (4 letters) RFCs.
var rfcPattern = regexp.MustCompile(`^[A-ZÑ&]{3,4}[0-9]{6}[A-Z0-9]{3}$`)

// ValidCURP reports whether the CURP is structurally valid.  A CURP must be
// exactly 18 characters; anything else is invalid or incomplete.
func ValidCURP(curp string) bool {
	c := strings.ToUpper(strings.TrimSpace(curp))
	if len(c) != 18 {
		return false
	}
	return curpPattern.MatchString(c)
}

// ValidCLABE reports whether the CLABE is exactly 18 digits.
func ValidCLABE(clabe string) bool {
	c := strings.TrimSpace(clabe)
	if len(c) != 18 {
		return false
	}
	for _, r := range c {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ValidRFC reports whether the RFC has a plausible structure.  This is a
// shape check only; it does not verify the checksum against the registry.
func ValidRFC(rfc string) bool {
	c := strings.ToUpper(strings.TrimSpace(rfc))
	if len(c) < 12 || len(c) > 13 {
		return false
	}
	return rfcPattern.MatchString(c)
}
