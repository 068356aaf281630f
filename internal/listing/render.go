package listing

import (
	"html/template"
	"io"
)

var pageTemplate = template.Must(template.New("listing").Parse(`<!doctype html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>FILE PORT</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; }
        table { width: 100%; border-collapse: collapse; margin-bottom: 20px; }
        th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
        th { background-color: #f2f2f2; font-weight: bold; }
        tr:nth-child(even) { background-color: #f9f9f9; }
        tr:hover { background-color: #f1f1f1; }
        a.folder { color: #8d02ff; }
        a.file { color: #5a3000; }
    </style>
</head>
<body>
<h1>{{.Path}}</h1>
<hr>
<table>
    <thead>
    <tr>
        <th>Name</th>
        <th>Size</th>
        <th>Modified</th>
        <th>Type</th>
    </tr>
    </thead>
    <tbody>
    {{- range .Entries}}
    <tr>
        {{- if .IsParent}}
        <td class="folder"><a href="{{.Href}}">{{.Name}}</a></td>
        <td></td>
        <td></td>
        <td></td>
        {{- else if .IsDir}}
        <td><a class="folder" href="{{.Href}}">{{.Name}}</a></td>
        <td>{{.Size}}</td>
        <td>{{.LastModified}}</td>
        <td>{{.Type}}</td>
        {{- else}}
        <td><a class="file" href="{{.Href}}" target="_blank">{{.Name}}</a></td>
        <td>{{.Size}}</td>
        <td>{{.LastModified}}</td>
        <td>{{.Type}}</td>
        {{- end}}
    </tr>
    {{- end}}
    </tbody>
</table>
<hr>
</body>
</html>
`))

// Render writes page as an HTML document.
func Render(w io.Writer, page *Page) error {
	return pageTemplate.Execute(w, page)
}
