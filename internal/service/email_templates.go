package service

import (
	"embed"
	"fmt"
	"text/template"

	"github.com/fittrack/fittrack/internal/markdown"
)

//go:embed emails/*.md
var emailFS embed.FS

var emailTemplates = template.Must(template.ParseFS(emailFS, "emails/*.md"))

const (
	emailVerify        = "verify_email.md"
	emailWelcome       = "welcome.md"
	emailPasswordAdded = "password_added.md"
)

type emailData struct {
	AppName string
	Name    string
	URL     string
	Expiry  string
}

type renderedEmail struct {
	Subject string
	HTML    string
}

func renderEmail(parser *markdown.Parser, name string, data emailData) (*renderedEmail, error) {
	tmpl := emailTemplates.Lookup(name)
	if tmpl == nil {
		return nil, fmt.Errorf("unknown email template %q", name)
	}

	html, meta, err := parser.Execute(tmpl, data)
	if err != nil {
		return nil, err
	}

	subject, _ := meta["subject"].(string)
	if subject == "" {
		return nil, fmt.Errorf("email template %q has no subject", name)
	}

	return &renderedEmail{Subject: subject, HTML: string(html)}, nil
}
