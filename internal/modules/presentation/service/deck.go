package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"henryedu.com/henryplatform/internal/entity"
)

// slideEntryPattern matches the per-slide XML parts inside a .pptx archive.
var slideEntryPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// ParseDeck extracts a slide outline from raw .pptx bytes. Parsing is best
// effort: any structural problem yields an empty deck rather than an error,
// so a bad upload still produces a stored presentation.
func ParseDeck(data []byte) entity.DeckContent {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return entity.DeckContent{Slides: []entity.Slide{}}
	}

	type slidePart struct {
		number int
		file   *zip.File
	}
	var parts []slidePart
	for _, file := range reader.File {
		match := slideEntryPattern.FindStringSubmatch(file.Name)
		if match == nil {
			continue
		}
		number, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		parts = append(parts, slidePart{number: number, file: file})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].number < parts[j].number })

	slides := make([]entity.Slide, 0, len(parts))
	for i, part := range parts {
		rc, err := part.file.Open()
		if err != nil {
			continue
		}
		title, body := parseSlideXML(rc)
		rc.Close()

		if title == "" {
			title = fmt.Sprintf("Slide %d", i+1)
		}

		slides = append(slides, entity.Slide{
			ID:      i + 1,
			Type:    "content",
			Title:   title,
			Content: body,
		})
	}

	return entity.DeckContent{Slides: slides}
}

// parseSlideXML walks one slide part and splits its text runs into a title
// and a body. The title comes from the title placeholder shape when one
// exists, otherwise from the first shape that carries text.
func parseSlideXML(r io.Reader) (title, body string) {
	decoder := xml.NewDecoder(r)

	type shapeText struct {
		isTitle bool
		texts   []string
	}

	var (
		shapes  []shapeText
		current *shapeText
		inText  bool
	)

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				shapes = append(shapes, shapeText{})
				current = &shapes[len(shapes)-1]
			case "ph":
				if current != nil {
					for _, attr := range t.Attr {
						if attr.Name.Local == "type" && (attr.Value == "title" || attr.Value == "ctrTitle") {
							current.isTitle = true
						}
					}
				}
			case "t":
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText && current != nil {
				text := strings.TrimSpace(string(t))
				if text != "" {
					current.texts = append(current.texts, text)
				}
			}
		}
	}

	var bodyParts []string
	for _, shape := range shapes {
		if len(shape.texts) == 0 {
			continue
		}
		joined := strings.Join(shape.texts, " ")
		if shape.isTitle && title == "" {
			title = joined
			continue
		}
		bodyParts = append(bodyParts, joined)
	}

	if title == "" && len(bodyParts) > 0 {
		title = bodyParts[0]
		bodyParts = bodyParts[1:]
	}

	return title, strings.Join(bodyParts, "\n")
}
