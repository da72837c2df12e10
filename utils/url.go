package utils

import (
	"fmt"
	"net/url"
	"strings"
)

// ResolveAssetRef resolves a remote asset reference to an absolute URL.
// An absolute http(s) reference passes through unchanged; anything else
// is treated as a path relative to the API base, with a leading slash
// normalized away before joining.
func ResolveAssetRef(base *url.URL, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", fmt.Errorf("empty asset reference")
	}

	if parsed, err := url.Parse(ref); err == nil && parsed.IsAbs() {
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return "", fmt.Errorf("unsupported asset scheme: %s", parsed.Scheme)
		}
		return parsed.String(), nil
	}

	if base == nil {
		return "", fmt.Errorf("no base URL for relative reference %q", ref)
	}

	rel, err := url.Parse(strings.TrimPrefix(ref, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid asset reference %q: %w", ref, err)
	}

	return base.ResolveReference(rel).String(), nil
}
