package validation

import (
	"net/url"
	"regexp"
)

// FingerprintPattern defines the valid fingerprint format: 64 lowercase hex characters.
var FingerprintPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// ValidateFingerprint checks if a fingerprint matches the allowed pattern.
// Fingerprints are used as filenames in the lookup directory, so anything
// that does not match is rejected before it reaches the filesystem.
func ValidateFingerprint(fp string) bool {
	if len(fp) != 64 {
		return false
	}
	return FingerprintPattern.MatchString(fp)
}

// ValidateStudyURL checks if a study URL is well formed. Any scheme is
// allowed; study URLs come from operator-owned configuration, not user input.
func ValidateStudyURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	// Parse the URL
	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	// Ensure scheme is present
	if u.Scheme == "" {
		return false, "URL must have a scheme"
	}

	// Ensure host is present
	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	// Ensure the query decodes; the merger re-encodes it
	if _, err := url.ParseQuery(u.RawQuery); err != nil {
		return false, "URL must have a decodable query"
	}

	return true, ""
}
