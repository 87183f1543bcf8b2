// Package toc extracts the table of contents from a rendered article
// and resolves which heading is active for a given set of viewport
// intersections.
package toc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Viewport margins for the intersection band: a heading activates once
// it crosses into the top 10-20% of the viewport. Exposed so the page
// script and the resolver agree on one contract.
const (
	RootMarginTop    = "-10%"
	RootMarginBottom = "-80%"
)

// ScrollOffset is the fixed pixel bias applied when scrolling to a
// heading so it lands below the sticky chrome.
const ScrollOffset = 100

// Heading is one entry of the table of contents. IDs are positional
// (heading-<index>) and therefore only stable for read-only documents.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// Extract collects h1-h6 in document order, assigns each a positional
// id, and returns the rewritten HTML alongside the heading list.
func Extract(rendered string) (string, []Heading, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return "", nil, fmt.Errorf("parse article html: %w", err)
	}

	var headings []Heading
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(i int, s *goquery.Selection) {
		id := fmt.Sprintf("heading-%d", i)
		s.SetAttr("id", id)

		level, _ := strconv.Atoi(strings.TrimPrefix(goquery.NodeName(s), "h"))
		headings = append(headings, Heading{
			ID:    id,
			Text:  strings.TrimSpace(s.Text()),
			Level: level,
		})
	})

	out, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, fmt.Errorf("serialize article html: %w", err)
	}
	return out, headings, nil
}

// Intersection is one observed heading position: Top is the distance
// from the viewport top in pixels at callback time.
type Intersection struct {
	ID           string  `json:"id"`
	Top          float64 `json:"top"`
	Intersecting bool    `json:"intersecting"`
}

// ActiveHeading picks the active entry deterministically: among all
// currently intersecting headings, the one nearest the viewport top
// wins; exact ties fall back to input order. Empty string when nothing
// intersects.
func ActiveHeading(entries []Intersection) string {
	best := -1
	for i, e := range entries {
		if !e.Intersecting {
			continue
		}
		if best == -1 || e.Top < entries[best].Top {
			best = i
		}
	}
	if best == -1 {
		return ""
	}
	return entries[best].ID
}

// ScrollTarget computes the document offset to scroll to for a heading,
// applying the fixed bias.
func ScrollTarget(headingTop, pageYOffset float64) float64 {
	return headingTop + pageYOffset - ScrollOffset
}
