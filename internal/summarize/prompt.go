// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package summarize

import (
	"strings"
	"text/template"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// summaryPromptTmpl is the prompt sent to the model for each paper. It
// embeds title, authors, abstract, and the (possibly truncated) extracted
// text, and pins the response to a fixed JSON schema so rendering can
// assume every field is present.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are an assistant specialized in summarizing academic machine learning papers. Create a concise, accurate summary highlighting the key contributions, methodology, and results.

Title: {{.Title}}
Authors: {{.Authors}}

Abstract:
{{.Abstract}}

Paper text:
{{.Content}}

Respond with a JSON object containing exactly these fields:
- "summary": a concise summary of the paper (300-500 words)
- "key_points": a list of 3-5 short takeaways
- "methodology": a brief description of the methods used
- "results": a summary of the main results
- "implications": potential implications or applications

Use an empty string for any field the paper gives no basis for. Do not include any text outside the JSON object.`))

type promptData struct {
	Title    string
	Authors  string
	Abstract string
	Content  string
}

func renderPrompt(meta types.PaperMetadata, text string) (string, error) {
	var sb strings.Builder
	err := summaryPromptTmpl.Execute(&sb, promptData{
		Title:    meta.Title,
		Authors:  strings.Join(meta.Authors, ", "),
		Abstract: meta.Abstract,
		Content:  text,
	})
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
