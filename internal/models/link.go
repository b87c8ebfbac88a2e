package models

import (
	"encoding/json"
	"strings"
	"time"
)

// TimeLayout is the timestamp format of metadata records: UTC with exactly
// three fractional digits.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

// MetaKeyPrefix is the key prefix under which link metadata records are stored.
const MetaKeyPrefix = "meta:"

// MetaKey returns the metadata record key for the given short path.
func MetaKey(path string) string {
	return MetaKeyPrefix + path
}

// Link represents a short path together with its target URL and timestamps.
// It is also the serialized form of a metadata record.
type Link struct {
	// Path is the short path the link is served under.
	Path string `json:"path"`
	// URL is the target the short path redirects to.
	URL string `json:"url"`
	// Created is the time the link was first created. It never changes afterwards.
	Created time.Time `json:"created"`
	// Updated is the time of the last modification, nil for links never updated.
	Updated *time.Time `json:"updated,omitempty"`
}

// ShortURL joins the origin (scheme and host) with the link path.
func (l *Link) ShortURL(origin string) string {
	return strings.TrimSuffix(origin, "/") + "/" + l.Path
}

// MarshalJSON writes timestamps in TimeLayout. Unmarshalling uses the default
// RFC 3339 parsing, which accepts that layout.
func (l Link) MarshalJSON() ([]byte, error) {
	type link struct {
		Path    string  `json:"path"`
		URL     string  `json:"url"`
		Created string  `json:"created"`
		Updated *string `json:"updated,omitempty"`
	}

	v := link{
		Path:    l.Path,
		URL:     l.URL,
		Created: l.Created.UTC().Format(TimeLayout),
	}
	if l.Updated != nil {
		updated := l.Updated.UTC().Format(TimeLayout)
		v.Updated = &updated
	}

	return json.Marshal(v)
}
