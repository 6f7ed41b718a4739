// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package format

import (
	"bytes"
	"text/template"
)

// promptTmpl is the instruction sent with the raw résumé text. The text goes
// last, between --- delimiters.
var promptTmpl = template.Must(template.New("resume").Parse(`The following text is a résumé extracted in raw form from a PDF.
Your task is to REFORMAT this text in {{.Language}}.
Use Markdown to create a professional, clean and well-structured layout.
Use headings (##), lists (*) and tables for Skills.
Do NOT add information that is not present in the text.
Make sure every section, such as Name, Contact, Education, Experience and Skills, is clearly highlighted.

RAW TEXT:

---
{{.Text}}
---`))

type promptData struct {
	Language string
	Text     string
}

// RenderPrompt builds the full prompt for text in the given language.
func RenderPrompt(language, text string) (string, error) {
	var buf bytes.Buffer
	if err := promptTmpl.Execute(&buf, promptData{Language: language, Text: text}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
