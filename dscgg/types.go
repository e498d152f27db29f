package dscgg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LinkType categorizes a link's redirect target.
type LinkType string

const (
	// LinkTypeServer is a Discord server invite link.
	LinkTypeServer LinkType = "server"
	// LinkTypeBot is a Discord bot authorization link.
	LinkTypeBot LinkType = "bot"
	// LinkTypeTemplate is a Discord server template link.
	LinkTypeTemplate LinkType = "template"
	// LinkTypeGeneric is any link that points outside Discord.
	LinkTypeGeneric LinkType = "link"
)

// ParseLinkType parses a user-supplied link type, case-insensitively.
// Only server, bot and template are accepted by the search endpoint;
// anything else returns false.
func ParseLinkType(s string) (LinkType, bool) {
	switch LinkType(strings.ToLower(s)) {
	case LinkTypeServer:
		return LinkTypeServer, true
	case LinkTypeBot:
		return LinkTypeBot, true
	case LinkTypeTemplate:
		return LinkTypeTemplate, true
	}
	return "", false
}

// Snowflake is a Discord ID. The service serializes IDs both as JSON
// numbers and as strings, so decoding accepts either form.
type Snowflake int64

// Int64 returns the ID as a plain int64.
func (s Snowflake) Int64() int64 { return int64(s) }

func (s Snowflake) String() string { return strconv.FormatInt(int64(s), 10) }

// UnmarshalJSON implements json.Unmarshaler.
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid snowflake %q: %w", raw, err)
	}
	*s = Snowflake(v)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(s), 10)), nil
}

// Timestamp is a point in time carried as a millisecond Unix epoch on the
// wire, again either as a JSON number or a string.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "" || raw == "null" {
		t.Time = time.Time{}
		return nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	t.Time = time.UnixMilli(ms).UTC()
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatInt(t.UnixMilli(), 10)), nil
}

// Link represents a dsc.gg short link.
type Link struct {
	ID        string     `json:"id"`
	Owner     Snowflake  `json:"owner"`
	Domain    string     `json:"domain,omitempty"`
	Redirect  string     `json:"redirect"`
	Type      LinkType   `json:"type"`
	CreatedAt Timestamp  `json:"created_at"`
	BumpedAt  *Timestamp `json:"bumped_at,omitempty"`
	Unlisted  bool       `json:"unlisted"`
	Disabled  bool       `json:"disabled"`
	Meta      *Embed     `json:"meta,omitempty"`
}

// URL returns the full short URL for the link.
func (l *Link) URL() string {
	return "https://dsc.gg/" + l.ID
}

// RedirectURL returns the redirect target with its scheme restored. The
// service stores redirects as bare host+path.
func (l *Link) RedirectURL() string {
	if strings.HasPrefix(l.Redirect, "https://") || strings.HasPrefix(l.Redirect, "http://") {
		return l.Redirect
	}
	return "https://" + l.Redirect
}

// User represents a dsc.gg user account.
type User struct {
	ID          Snowflake `json:"id"`
	Premium     bool      `json:"premium"`
	Verified    bool      `json:"verified"`
	Blacklisted bool      `json:"blacklisted"`
	JoinedAt    Timestamp `json:"joined_at"`
}

// App represents a dsc.gg developer application.
type App struct {
	ID        Snowflake `json:"id"`
	OwnerID   Snowflake `json:"owner_id"`
	CreatedAt Timestamp `json:"created_at"`
	Verified  bool      `json:"verified"`
	// Key is only present when the authenticated caller owns the app.
	Key string `json:"key,omitempty"`
}

// Embed is the rich metadata shown when a link is previewed. Every field
// is optional; a link may carry no embed at all.
type Embed struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Color       *Color `json:"color,omitempty"`
}

// Announcement represents a service announcement addressed to a user scope.
type Announcement struct {
	Author     string `json:"author"`
	Recipients string `json:"for"`
	Message    string `json:"message"`
	Type       string `json:"type"`
}
