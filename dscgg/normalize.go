package dscgg

import "strings"

// slugPrefixes are the service host prefixes stripped by NormalizeSlug.
var slugPrefixes = []string{
	"https://dsc.gg/",
	"http://dsc.gg/",
	"dsc.gg/",
}

// redirectTypes maps the known Discord redirect prefixes to their link
// type. Built once; never mutated.
var redirectTypes = map[string]LinkType{
	"https://discord.gg/":           LinkTypeServer,
	"https://discord.com/template/": LinkTypeTemplate,
	"https://discord.com/oauth2/":   LinkTypeBot,
}

// NormalizeSlug reduces a full dsc.gg link to its slug. Input that does not
// carry a known service prefix is returned unchanged; the service itself
// validates the character set.
func NormalizeSlug(link string) string {
	for _, prefix := range slugPrefixes {
		if strings.HasPrefix(link, prefix) {
			return link[len(prefix):]
		}
	}
	return link
}

// ClassifyRedirect determines the link type for a redirect target. The
// target is matched against the known Discord invite, template and OAuth
// prefixes; anything else, including malformed input, is generic.
func ClassifyRedirect(redirect string) LinkType {
	if !strings.HasPrefix(redirect, "https://") {
		redirect = "https://" + redirect
	}
	idx := strings.LastIndex(redirect, "/")
	if idx < 0 {
		return LinkTypeGeneric
	}
	if t, ok := redirectTypes[redirect[:idx+1]]; ok {
		return t
	}
	return LinkTypeGeneric
}

// stripScheme reduces a redirect URL to the bare host+path form the service
// stores.
func stripScheme(u string) string {
	u = strings.TrimPrefix(u, "https://")
	return strings.TrimPrefix(u, "http://")
}
