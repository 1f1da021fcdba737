// Package sitemap renders the storefront's robots.txt and sitemaps.org
// URL set.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"io"
	"strconv"
	"strings"
	"time"
)

const Namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

const (
	DefaultChangeFreq = "monthly"
	DefaultPriority   = 0.8
)

// DefaultPages are the storefront routes that are always listed.
var DefaultPages = []string{"/", "/about", "/products", "/careers", "/partners", "/contact", "/privacy"}

// URL is one <url> entry.
type URL struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}

type urlSet struct {
	XMLName xml.Name  `xml:"urlset"`
	NS      string    `xml:"xmlns,attr"`
	URLs    []urlNode `xml:"url"`
}

type urlNode struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// Pages turns site-relative paths into entries under siteURL, dropping
// repeats and keeping the first occurrence.
func Pages(siteURL string, paths []string, lastMod time.Time) []URL {
	base := strings.TrimRight(siteURL, "/")
	seen := make(map[string]bool, len(paths))
	out := make([]URL, 0, len(paths))
	for _, p := range paths {
		p = "/" + strings.Trim(strings.TrimSpace(p), "/")
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, URL{
			Loc:        base + p,
			LastMod:    lastMod,
			ChangeFreq: DefaultChangeFreq,
			Priority:   DefaultPriority,
		})
	}
	return out
}

// Write renders urls as a sitemaps.org urlset.
func Write(w io.Writer, urls []URL) error {
	doc := urlSet{NS: Namespace, URLs: make([]urlNode, 0, len(urls))}
	for _, u := range urls {
		n := urlNode{Loc: u.Loc, ChangeFreq: u.ChangeFreq}
		if !u.LastMod.IsZero() {
			n.LastMod = u.LastMod.UTC().Format(time.DateOnly)
		}
		if u.Priority > 0 {
			n.Priority = strconv.FormatFloat(u.Priority, 'f', 1, 64)
		}
		doc.URLs = append(doc.URLs, n)
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Build returns the rendered sitemap.
func Build(urls []URL) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, urls); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Robots allows every crawler, blocks the disallow prefixes and points at
// the sitemap.
func Robots(siteURL string, disallow ...string) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\nAllow: /\n")
	for _, d := range disallow {
		b.WriteString("Disallow: " + d + "\n")
	}
	b.WriteString("Sitemap: " + strings.TrimRight(siteURL, "/") + "/sitemap.xml\n")
	return []byte(b.String())
}
