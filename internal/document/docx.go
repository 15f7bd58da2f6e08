package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

type docxDocument struct {
	XMLName xml.Name `xml:"w:document"`
	NS      string   `xml:"xmlns:w,attr"`
	Body    docxBody `xml:"w:body"`
}

type docxBody struct {
	Paragraphs []docxParagraph `xml:"w:p"`
}

type docxParagraph struct {
	Runs []docxRun `xml:"w:r"`
}

type docxRun struct {
	Props *docxRunProps `xml:"w:rPr,omitempty"`
	Text  docxText      `xml:"w:t"`
}

type docxRunProps struct {
	Bold *struct{} `xml:"w:b,omitempty"`
	Size *docxVal  `xml:"w:sz,omitempty"`
}

type docxVal struct {
	Val string `xml:"w:val,attr"`
}

type docxText struct {
	Space string `xml:"xml:space,attr,omitempty"`
	Value string `xml:",chardata"`
}

// BuildReport produces a .docx with the title as a bold heading followed
// by one paragraph per line of body. Blank lines become paragraph breaks.
func BuildReport(title, body string) (*File, error) {
	// Heading size is half-points: 32 half-points = 16pt.
	heading := docxParagraph{Runs: []docxRun{{
		Props: &docxRunProps{Bold: &struct{}{}, Size: &docxVal{Val: "32"}},
		Text:  docxText{Space: "preserve", Value: title},
	}}}

	doc := docxDocument{
		NS:   "http://schemas.openxmlformats.org/wordprocessingml/2006/main",
		Body: docxBody{Paragraphs: []docxParagraph{heading}},
	}

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		p := docxParagraph{}
		if line != "" {
			p.Runs = []docxRun{{Text: docxText{Space: "preserve", Value: line}}}
		}
		doc.Body.Paragraphs = append(doc.Body.Paragraphs, p)
	}

	docXML, err := xml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document body: %w", err)
	}

	data, err := zipParts([]zipPart{
		{name: "[Content_Types].xml", body: []byte(docxContentTypes)},
		{name: "_rels/.rels", body: []byte(docxRootRels)},
		{name: "word/document.xml", body: append([]byte(xml.Header), docXML...)},
	})
	if err != nil {
		return nil, err
	}

	return &File{
		Name: safeFilename(title) + ".docx",
		MIME: MIMEWord,
		Data: data,
	}, nil
}

type zipPart struct {
	name string
	body []byte
}

func zipParts(parts []zipPart) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %s: %w", part.name, err)
		}
		if _, err := w.Write(part.body); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}
	return buf.Bytes(), nil
}

// safeFilename derives an attachment name from the topic, keeping letters
// and digits and collapsing everything else to underscores.
func safeFilename(title string) string {
	var sb strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r == '"' || r == '\'' || r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' || r == '<' || r == '>' || r == '|':
			if !lastUnderscore {
				sb.WriteRune('_')
				lastUnderscore = true
			}
		case r == ' ' || r == '\t':
			if !lastUnderscore {
				sb.WriteRune('_')
				lastUnderscore = true
			}
		default:
			sb.WriteRune(r)
			lastUnderscore = false
		}
	}
	name := strings.Trim(sb.String(), "_")
	if name == "" {
		return "document"
	}
	const maxNameRunes = 60
	runes := []rune(name)
	if len(runes) > maxNameRunes {
		name = string(runes[:maxNameRunes])
	}
	return name
}
