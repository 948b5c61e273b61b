package redirect

import (
	"fmt"
	"net/url"
)

// MergeURL combines a study URL with the request parameters. Keys already
// present on the study URL win over request keys wholesale; there is no
// per-value union. The merged query is re-encoded in sorted key order, so
// identical inputs always produce byte-identical output. A destination
// whose own query does not decode is rejected, never partially merged.
func MergeURL(base string, params url.Values) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid destination URL %q: %w", base, err)
	}
	destParams, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", fmt.Errorf("invalid destination query in %q: %w", base, err)
	}

	merged := url.Values{}
	for key, values := range params {
		merged[key] = append([]string(nil), values...)
	}
	for key, values := range destParams {
		merged[key] = append([]string(nil), values...)
	}

	u.RawQuery = merged.Encode()
	return u.String(), nil
}
