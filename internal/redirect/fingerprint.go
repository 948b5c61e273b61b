package redirect

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
	"github.com/opencontainers/go-digest"
)

// Fingerprint derives the stable identity of a request from its query
// parameters. Values are sorted per key and the JSON encoding is
// canonicalized (RFC 8785) before hashing, so any ordering of the same
// parameters produces the same 64-character hex digest.
func Fingerprint(params url.Values) (string, error) {
	sorted := make(map[string][]string, len(params))
	for key, values := range params {
		vs := append([]string(nil), values...)
		sort.Strings(vs)
		sorted[key] = vs
	}

	encoded, err := json.Marshal(sorted)
	if err != nil {
		return "", fmt.Errorf("encoding parameters: %w", err)
	}

	canonical, err := jsoncanonicalizer.Transform(encoded)
	if err != nil {
		return "", fmt.Errorf("canonicalizing parameters: %w", err)
	}

	return digest.FromBytes(canonical).Encoded(), nil
}
