package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"mime"
	"path"
	"strings"
	"time"
)

// Generator renders a feed list as an RSS 2.0 document that Parser reads
// back: the ID goes to guid, the image to an enclosure and the location to
// georss:featurename.
type Generator struct {
	title    string
	selfLink string
	version  string
}

func NewGenerator(title, selfLink, version string) *Generator {
	return &Generator{
		title:    title,
		selfLink: selfLink,
		version:  version,
	}
}

func (g *Generator) Run(items []Item) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom" xmlns:georss="http://www.georss.org/georss">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", g.title, 4)
	g.writeElement(&buf, "link", g.selfLink, 4)
	g.writeElement(&buf, "description", fmt.Sprintf("%d cached images", len(items)), 4)

	if g.selfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(g.selfLink)))
	}

	g.writeElement(&buf, "lastBuildDate", time.Now().In(time.Local).Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("Feed-Cache/%s", g.version), 4)

	for _, item := range items {
		if err := g.writeItem(&buf, item); err != nil {
			return "", err
		}
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Item) error {
	if item.ImageURL == nil {
		return fmt.Errorf("item %s has no image URL", item.ID)
	}

	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">urn:uuid:")
	buf.WriteString(item.ID.String())
	buf.WriteString("</guid>\n")

	if item.Description != nil {
		g.writeElement(buf, "description", *item.Description, 6)
	}

	if item.Location != nil {
		g.writeElement(buf, "georss:featurename", *item.Location, 6)
	}

	imageURL := item.ImageURL.String()
	buf.WriteString(fmt.Sprintf("      <enclosure url=\"%s\" length=\"0\" type=\"%s\" />\n",
		html.EscapeString(imageURL),
		html.EscapeString(imageType(item.ImageURL.Path))))

	buf.WriteString("    </item>\n")

	return nil
}

func (g *Generator) writeElement(buf *bytes.Buffer, tag, content string, indent int) {
	if content == "" {
		return
	}

	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}

	buf.WriteString("<")
	buf.WriteString(tag)
	buf.WriteString(">")
	xml.EscapeText(buf, []byte(content))
	buf.WriteString("</")
	buf.WriteString(tag)
	buf.WriteString(">\n")
}

// imageType guesses the enclosure type from the file extension. Unknown
// extensions are reported as image/jpeg.
func imageType(p string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(p))); strings.HasPrefix(t, "image/") {
		return t
	}
	return "image/jpeg"
}
