// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import "html/template"

var indexTmpl = template.Must(template.New("index.html").Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Paper Digest — {{.Date}}</title>
<style>
body { font-family: Georgia, serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
header { display: flex; justify-content: space-between; align-items: baseline; border-bottom: 2px solid #222; padding-bottom: .5rem; }
article { border-bottom: 1px solid #ccc; padding: 1rem 0; }
h2 { margin: 0 0 .25rem; font-size: 1.2rem; }
.authors { color: #666; font-size: .9rem; margin: 0 0 .5rem; }
ul.key-points { margin: .5rem 0; }
details { margin-top: .5rem; }
details summary { cursor: pointer; color: #336; }
.section { margin: .5rem 0; }
.section b { display: block; }
.empty { color: #666; font-style: italic; margin: 2rem 0; }
</style>
</head>
<body>
<header>
<h1>Paper Digest</h1>
<form method="get" action="/">
<select name="date" onchange="this.form.submit()">
{{range .DateOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Display}}</option>
{{end}}</select>
<noscript><button type="submit">Go</button></noscript>
</form>
</header>
{{if .Papers}}
<p>{{.Count}} paper(s) for {{.Date}}</p>
{{range .Papers}}
<article>
<h2><a href="https://arxiv.org/abs/{{.ArxivID}}">{{.Title}}</a></h2>
<p class="authors">{{range $i, $a := .Authors}}{{if $i}}, {{end}}{{$a}}{{end}}</p>
<p>{{.Summary}}</p>
{{if .PreviewPoints}}
<ul class="key-points">
{{range .PreviewPoints}}<li>{{.}}</li>
{{end}}</ul>
{{end}}
<details>
<summary>Details</summary>
{{if .Methodology}}<div class="section"><b>Methodology</b>{{.Methodology}}</div>{{end}}
{{if .Results}}<div class="section"><b>Results</b>{{.Results}}</div>{{end}}
{{if .Implications}}<div class="section"><b>Implications</b>{{.Implications}}</div>{{end}}
</details>
</article>
{{end}}
{{else}}
<p class="empty">No papers stored for {{.Date}}.</p>
{{end}}
</body>
</html>
`
