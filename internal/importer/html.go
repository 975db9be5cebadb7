// Package importer reads browser bookmark exports and creates them through
// the API.
package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Entry is one bookmark found in an export file.
type Entry struct {
	URL     string
	Title   string
	Folder  string // innermost folder name, "" at the root
	Tags    []string
	AddedAt time.Time
}

// ParseHTML parses Netscape bookmark HTML, the format every major browser
// exports.
func ParseHTML(r io.Reader) ([]Entry, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	var folders []string
	pending := ""

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Becomes the current folder at the next DL.
				pending = textContent(n)
				return

			case "a":
				href := strings.TrimSpace(attr(n, "href"))
				if href == "" {
					return
				}
				title := textContent(n)
				if title == "" {
					title = href
				}
				entry := Entry{URL: href, Title: title, Tags: splitTags(attr(n, "tags"))}
				if len(folders) > 0 {
					entry.Folder = folders[len(folders)-1]
				}
				if ts, err := strconv.ParseInt(attr(n, "add_date"), 10, 64); err == nil {
					entry.AddedAt = time.Unix(ts, 0)
				}
				entries = append(entries, entry)
				return

			case "dl":
				pushed := false
				if pending != "" {
					folders = append(folders, pending)
					pending = ""
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				if pushed {
					folders = folders[:len(folders)-1]
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return entries, nil
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.TrimSpace(b.String())
}

// attr looks up an attribute case-insensitively.
func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func splitTags(raw string) []string {
	tags := []string{}
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
