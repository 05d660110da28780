package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

// Welcome is the template name used for the post-registration email.
const Welcome = "welcome"

var welcomeHTML = template.Must(template.New(Welcome).Parse(`<!doctype html>
<html>
  <body style="font-family: sans-serif; color: #222;">
    <h2>Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
    <p>Your account is ready. Upload your first image and start sharing.</p>
    <p style="color:#888; font-size:12px;">You received this email because this address was used to register an account.</p>
  </body>
</html>`))

// Render returns subject and HTML body for a known template name.
func Render(name string, data map[string]any) (subject, html string, err error) {
	switch name {
	case Welcome:
		var buf bytes.Buffer
		d := struct{ Name string }{}
		if v, ok := data["Name"]; ok {
			d.Name = fmt.Sprintf("%v", v)
		}
		if err := welcomeHTML.Execute(&buf, d); err != nil {
			return "", "", err
		}
		return "Welcome to ImageShare", buf.String(), nil
	default:
		return "", "", fmt.Errorf("unknown email template %q", name)
	}
}
