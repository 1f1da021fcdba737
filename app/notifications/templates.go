package notifications

import (
	"bytes"
	"html/template"
)

var templates = template.Must(template.New("mail").Parse(`
{{define "job"}}
<h2>New Job Application Received</h2>
<p><strong>Position:</strong> {{or .JobTitle "General Application"}}</p>
<p><strong>Applicant Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
{{if .Experience}}<p><strong>Experience:</strong> {{.Experience}} years</p>{{end}}
{{if .Location}}<p><strong>Location:</strong> {{.Location}}</p>{{end}}
<p><strong>Cover Letter:</strong></p>
<p>{{or .Message "No cover letter provided"}}</p>
<hr>
<p><em>This application was submitted through the Sudevi Agro Foods careers page.</em></p>
{{end}}

{{define "partner"}}
<h2>New Partnership Application Received</h2>
<p><strong>Company:</strong> {{.Company}}</p>
<p><strong>Partnership Type:</strong> {{.PartnerType}}</p>
<p><strong>Contact Person:</strong> {{.ContactPerson}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Location:</strong> {{.Location}}</p>
<p><strong>Message:</strong></p>
<p>{{or .Message "No additional message provided"}}</p>
<hr>
<p><em>This application was submitted through the Sudevi Agro Foods partners page.</em></p>
{{end}}

{{define "contact"}}
<h2>New Website Inquiry</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> {{.Email}}</p>
{{if .Phone}}<p><strong>Phone:</strong> {{.Phone}}</p>{{end}}
<p><strong>Subject:</strong> {{or .Subject "Website Inquiry"}}</p>
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
<hr>
<p><em>This inquiry was submitted through the Sudevi Agro Foods contact page.</em></p>
{{end}}
`))

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
