package core

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const footerTool = "[todo-action](https://github.com/ksysoev/todo-action)"

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"tool": func() string { return footerTool },
}).Parse(`
{{- define "blob" -}}
https://github.com/{{ .Repo.Owner }}/{{ .Repo.Name }}/blob/{{ .Todo.Sha }}/{{ .Todo.Filename }}#{{ .Todo.Range }}
{{- end -}}

{{- define "issue" -}}
{{ if .Todo.Body }}{{ .Todo.Body }}

---

{{ end -}}
{{ template "blob" . }}

---

###### This issue was generated by {{ tool }} based on a ` + "`{{ .Todo.Keyword }}`" + ` comment in {{ .Todo.Sha }}.{{ if .Todo.AssignedTo }} {{ .Todo.AssignedTo }}.{{ end }}

{{ .Marker }}
{{- end -}}

{{- define "comment" -}}
## {{ .Todo.Title }}

{{ if .Text }}{{ .Text }}

{{ end -}}
{{ template "blob" . }}

---

###### This comment was generated by {{ tool }} based on a ` + "`{{ .Todo.Keyword }}`" + ` comment in {{ .Todo.Sha }} in #{{ .Number }}.{{ if .Todo.AssignedTo }} {{ .Todo.AssignedTo }}.{{ end }}

{{ .Marker }}
{{- end -}}

{{- define "reopen" -}}
This issue has been reopened because the **` + "`{{ .Todo.Keyword }}`" + `** comment still exists in [**{{ .Todo.Filename }}**]({{ template "blob" . }}), as of {{ .Todo.Sha }}.

---

###### If this was not intentional, just remove the comment from your code. You can also set the ` + "`reopenClosed`" + ` config if you don't want this to happen at all anymore.
{{- end -}}
`))

type renderData struct {
	Repo   Repository
	Todo   *Todo
	Text   string
	Number int
	Marker string
}

// RenderIssue renders the body of a new issue
func RenderIssue(repo Repository, todo *Todo) (string, error) {
	return render("issue", repo, todo, "", 0)
}

// RenderComment renders a pull request review comment. text replaces the
// todo body, e.g. with a "may resolve" note for deletions.
func RenderComment(repo Repository, todo *Todo, number int, text string) (string, error) {
	return render("comment", repo, todo, text, number)
}

// RenderReopen renders the comment posted on a reopened issue
func RenderReopen(repo Repository, todo *Todo) (string, error) {
	return render("reopen", repo, todo, "", 0)
}

func render(name string, repo Repository, todo *Todo, text string, number int) (string, error) {
	marker, err := NewMarker(todo).Encode()
	if err != nil {
		return "", err
	}

	data := renderData{
		Repo:   repo,
		Todo:   todo,
		Text:   text,
		Number: number,
		Marker: marker,
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}

	return strings.TrimSpace(buf.String()), nil
}
