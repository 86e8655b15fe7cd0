package gpx

import "strings"

// ParseMetadata reads the descriptive fields of a GPX document: the first
// <metadata> block, the name of the first <trk>, and the creator attribute of
// the root element. It never fails; a document without any of these yields a
// Metadata with every field nil. A document that stops tokenizing part way
// yields the fields read before that point.
//
// The title is the metadata name when it is non-empty and the track name
// otherwise. Labels derived from file names are left to the caller.
func ParseMetadata(doc string) Metadata {
	root, _ := decode(doc)
	meta := root.find("metadata")
	trk := root.find("trk")

	m := Metadata{
		Title:      meta.find("name").text(),
		MetaDesc:   meta.find("desc").text(),
		LinkText:   meta.find("text").text(),
		AuthorName: meta.find("author").find("name").text(),
		Keywords:   meta.find("keywords").text(),
	}
	if m.Title == nil || *m.Title == "" {
		m.Title = trk.find("name").text()
	}

	if ts := meta.find("time").text(); ts != nil && *ts != "" {
		date, _, _ := strings.Cut(*ts, "T")
		m.Date = &date
	}

	for _, link := range meta.findAll("link") {
		if href, ok := link.attr("href"); ok && href != "" {
			m.LinkHref = &href
			break
		}
	}

	for _, g := range root.findAll("gpx") {
		if creator, ok := g.attr("creator"); ok && creator != "" {
			m.Creator = &creator
			break
		}
	}

	return m
}
