package mailer

import (
	"bytes"
	htmltemplate "html/template"
	"strconv"
	texttemplate "text/template"
	"time"
)

type templateData struct {
	FirstName string
	URL       string
	ValidFor  string
}

var resetText = texttemplate.Must(texttemplate.New("reset").Parse(
	`Hi {{.FirstName}},

Forgot your password? Submit a PATCH request with your new password and passwordConfirm to:
{{.URL}}

The link is valid for {{.ValidFor}}. If you didn't forget your password, please ignore this email.
`))

var resetHTML = htmltemplate.Must(htmltemplate.New("reset").Parse(
	`<p>Hi {{.FirstName}},</p>
<p>Forgot your password? Submit a PATCH request with your new password and passwordConfirm to:</p>
<p><a href="{{.URL}}">{{.URL}}</a></p>
<p>The link is valid for {{.ValidFor}}. If you didn't forget your password, please ignore this email.</p>
`))

var welcomeText = texttemplate.Must(texttemplate.New("welcome").Parse(
	`Hi {{.FirstName}},

Welcome to Tours, we're glad to have you! Upload a profile photo and start exploring:
{{.URL}}
`))

var welcomeHTML = htmltemplate.Must(htmltemplate.New("welcome").Parse(
	`<p>Hi {{.FirstName}},</p>
<p>Welcome to Tours, we're glad to have you!</p>
<p><a href="{{.URL}}">Upload a profile photo and start exploring</a></p>
`))

func render(data templateData, text *texttemplate.Template, html *htmltemplate.Template) (string, string, error) {
	var tb, hb bytes.Buffer
	if err := text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	if err := html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}

// PasswordReset builds the reset email carrying the one-time link.
func PasswordReset(to, name, url string, validFor time.Duration) (Message, error) {
	valid := minutes(validFor)
	text, html, err := render(templateData{FirstName: firstName(name), URL: url, ValidFor: valid}, resetText, resetHTML)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Your password reset token (valid for " + valid + ")",
		Text:    text,
		HTML:    html,
	}, nil
}

// Welcome builds the signup greeting.
func Welcome(to, name, url string) (Message, error) {
	text, html, err := render(templateData{FirstName: firstName(name), URL: url}, welcomeText, welcomeHTML)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:      to,
		Subject: "Welcome to the Tours family!",
		Text:    text,
		HTML:    html,
	}, nil
}

func firstName(name string) string {
	for i, r := range name {
		if r == ' ' {
			return name[:i]
		}
	}
	return name
}

func minutes(d time.Duration) string {
	m := int(d.Minutes())
	if m == 1 {
		return "1 minute"
	}
	return strconv.Itoa(m) + " minutes"
}
