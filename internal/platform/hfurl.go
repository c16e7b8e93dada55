package platform

import (
	"net/url"
	"path"
	"strings"
)

// Hugging Face URL constants
const (
	HFHost            = "huggingface.co"
	HFBlobSegment     = "/blob/"
	HFTreeSegment     = "/tree/"
	HFResolveSegment  = "/resolve/"
	HFDownloadParam   = "download"
	HFDownloadEnabled = "true"
)

// NormalizeURL canonicalizes a source URL into a directly fetchable download
// link. Hugging Face web links ("/blob/", "/tree/") are rewritten to the
// content-serving "/resolve/" path and tagged with download=true unless the
// flag is already present. Anything that is not a parseable absolute
// Hugging Face URL passes through unchanged; the function never fails.
func NormalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	if !isHFHost(u.Hostname()) {
		return raw
	}

	path := u.Path
	path = strings.Replace(path, HFBlobSegment, HFResolveSegment, 1)
	path = strings.Replace(path, HFTreeSegment, HFResolveSegment, 1)
	u.Path = path

	q := u.Query()
	if !q.Has(HFDownloadParam) {
		q.Set(HFDownloadParam, HFDownloadEnabled)
		u.RawQuery = q.Encode()
	}

	return u.String()
}

// FilenameFromURL extracts the basename of the URL path, or "" when the URL
// does not parse or has no file component
func FilenameFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// isHFHost reports whether host is huggingface.co or one of its subdomains
func isHFHost(host string) bool {
	host = strings.ToLower(host)
	return host == HFHost || strings.HasSuffix(host, "."+HFHost)
}
