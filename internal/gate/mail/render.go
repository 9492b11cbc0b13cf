package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates/*
var templatesFS embed.FS

var (
	signupSubject  *texttemplate.Template
	signupTextBody *texttemplate.Template
	signupHTMLBody *template.Template
)

func init() {
	signupSubject = texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/signup_code_subject.txt"))
	signupTextBody = texttemplate.Must(texttemplate.ParseFS(templatesFS, "templates/signup_code.txt"))
	signupHTMLBody = template.Must(template.ParseFS(templatesFS, "templates/signup_code.html"))
}

type signupCodeData struct {
	Code          string
	ExpiryMinutes int
}

// RenderSignupCode renders the verification-code message from the embedded
// templates. Returns subject, html body, and text body.
func RenderSignupCode(code string, ttl time.Duration) (subject, html, text string, err error) {
	data := signupCodeData{
		Code:          code,
		ExpiryMinutes: int(ttl.Minutes()),
	}

	var buf bytes.Buffer
	if err := signupSubject.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render subject: %w", err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err := signupTextBody.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render text body: %w", err)
	}
	text = buf.String()

	buf.Reset()
	if err := signupHTMLBody.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("failed to render html body: %w", err)
	}
	html = buf.String()

	return subject, html, text, nil
}
