package neo

import (
	"bytes"
	"cmp"
	"encoding/xml"
	"fmt"
	"html"
	"time"
)

// Generator renders a listing view as an RSS 2.0 document so approaches can
// be followed from a feed reader.
type Generator struct {
	version string
}

func NewGenerator(version string) *Generator {
	return &Generator{version: cmp.Or(version, "dev")}
}

func (g *Generator) Run(title, selfLink string, items []Summary) (string, error) {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	g.writeElement(&buf, "title", cmp.Or(title, "Near-Earth Object approaches"), 4)
	g.writeElement(&buf, "link", selfLink, 4)
	g.writeElement(&buf, "description", fmt.Sprintf("%d close approaches", len(items)), 4)
	if selfLink != "" {
		buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
			html.EscapeString(selfLink)))
	}
	g.writeElement(&buf, "lastBuildDate", time.Now().In(time.Local).Format(time.RFC1123Z), 4)
	g.writeElement(&buf, "generator", fmt.Sprintf("NEO-Comb/%s", g.version), 4)

	for _, item := range items {
		g.writeItem(&buf, item)
	}

	buf.WriteString("  </channel>\n</rss>")

	return buf.String(), nil
}

func (g *Generator) writeItem(buf *bytes.Buffer, item Summary) {
	buf.WriteString("    <item>\n")

	buf.WriteString("      <guid isPermaLink=\"false\">")
	xml.EscapeText(buf, []byte(item.ID+"@"+item.ResolvedDate()))
	buf.WriteString("</guid>\n")

	g.writeElement(buf, "title", DisplayName(item.Name), 6)
	g.writeElement(buf, "link", item.ReferenceURL, 6)
	g.writeElement(buf, "description", g.describe(item), 6)

	if date := item.ResolvedDate(); date != "" {
		g.writeElement(buf, "pubDate", ParseDate(date).Format(time.RFC1123Z), 6)
	}

	if item.IsHazardous {
		g.writeElement(buf, "category", "Potentially Hazardous", 6)
	}
	g.writeElement(buf, "category", SizeCategory(item.AverageDiameterKm()), 6)

	buf.WriteString("    </item>\n")
}

func (g *Generator) describe(item Summary) string {
	approach, ok := item.FirstApproach()
	if !ok {
		return fmt.Sprintf("Estimated diameter %s. No close approach data.", FormatDiameter(item.AverageDiameterKm()))
	}
	return fmt.Sprintf("Closest approach %s at %s, passing %s (%.2f LD). Estimated diameter %s.",
		approach.Date,
		FormatVelocity(approach.RelativeVelocity.KmPerHour),
		FormatDistance(approach.MissDistance.Km),
		approach.MissDistance.Lunar,
		FormatDiameter(item.AverageDiameterKm()))
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
