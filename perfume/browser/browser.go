// Package browser identifies the browser a session runs in.
package browser

import (
	ua "github.com/mileusna/useragent"
)

// Info is the resolved browser name and operating system. Either field may
// be empty when it could not be resolved.
type Info struct {
	Name string `json:"name,omitempty"`
	OS   string `json:"os,omitempty"`
}

// Resolved reports whether a browser name is known.
func (i Info) Resolved() bool {
	return i.Name != ""
}

// Source supplies browser identification.
type Source interface {
	Browser() Info
}

// Static is a Source that always returns the same Info.
type Static Info

// Browser implements Source.
func (s Static) Browser() Info {
	return Info(s)
}

// UserAgent is a Source that parses a User-Agent header.
type UserAgent string

// Browser implements Source.
func (u UserAgent) Browser() Info {
	return FromUserAgent(string(u))
}

// FromUserAgent parses a User-Agent string into Info. An empty string
// resolves to the zero Info.
func FromUserAgent(header string) Info {
	if header == "" {
		return Info{}
	}
	parsed := ua.Parse(header)
	return Info{
		Name: parsed.Name,
		OS:   parsed.OS,
	}
}
