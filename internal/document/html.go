package document

import (
	"bytes"
	"html/template"
	"strings"
)

const orderFormHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>{{.Document.Title}}</title>
  <style>
    * { box-sizing: border-box; }
    body {
      margin: 0;
      padding: 32px;
      font-family: "Helvetica Neue", Arial, sans-serif;
      color: #1f2937;
      background: #ffffff;
    }
    .page {
      max-width: 820px;
      margin: 0 auto;
    }
    .header {
      display: flex;
      justify-content: space-between;
      align-items: flex-start;
      border-bottom: 2px solid #f3f4f6;
      padding-bottom: 16px;
      margin-bottom: 24px;
    }
    .brand {
      font-size: 20px;
      font-weight: 700;
      color: #f97316;
    }
    .company {
      text-align: right;
      font-size: 13px;
      color: #4b5563;
    }
    h1 {
      font-weight: 300;
      text-align: center;
      margin: 0 0 4px;
    }
    .quote-meta {
      text-align: center;
      font-size: 13px;
      color: #6b7280;
      margin-bottom: 32px;
    }
    .section {
      border-left: 4px solid #f97316;
      margin-bottom: 24px;
    }
    .section h2 {
      font-size: 13px;
      text-transform: uppercase;
      letter-spacing: 0.04em;
      color: #ea580c;
      background: #f9fafb;
      margin: 0;
      padding: 8px 16px;
    }
    .section .body { padding: 12px 16px; }
    .row {
      display: grid;
      grid-template-columns: 1fr 2fr;
      font-size: 14px;
      padding: 6px 0;
      border-bottom: 1px solid #f3f4f6;
    }
    .row .label { font-weight: 600; }
    .row .value { white-space: pre-line; }
    ul { margin: 0; padding-left: 20px; font-size: 14px; }
    li { padding: 4px 0; }
    .signatures {
      margin-top: 48px;
      padding-top: 32px;
      border-top: 2px solid #e5e7eb;
      font-size: 14px;
    }
    .signatures .grid {
      display: grid;
      grid-template-columns: 1fr 1fr;
      gap: 48px;
      margin-top: 32px;
    }
    .sig-line {
      border-bottom: 1px solid #9ca3af;
      height: 48px;
      margin-bottom: 8px;
    }
    @media print {
      body { padding: 0; }
    }
  </style>
</head>
<body>
  <div class="page">
    <div class="header">
      <div class="brand">{{.Company.Name}}</div>
      <div class="company">
        <div><strong>{{.Company.Name}}</strong></div>
        {{range .Company.Address}}<div>{{.}}</div>{{end}}
        <div>{{.Company.Phone}}</div>
      </div>
    </div>

    <h1>{{.Document.Title}}</h1>
    <div class="quote-meta">
      Quote date: {{.Document.QuoteDate}} | Quote expiry: {{.Document.QuoteExpiry}}
    </div>

    {{range .Document.Sections}}
    <div class="section">
      <h2>{{.Title}}</h2>
      <div class="body">
        {{range .Rows}}
        <div class="row"><span class="label">{{.Label}}:</span><span class="value">{{.Value}}</span></div>
        {{end}}
        {{if .Bullets}}
        <ul>
          {{range .Bullets}}<li>{{.}}</li>{{end}}
        </ul>
        {{end}}
      </div>
    </div>
    {{end}}

    <div class="signatures">
      <p>This Order Form is entered into by and between {{.Company.Name}} and the Customer identified herein ("Customer") pursuant to, and is governed by the terms of the Master Services Terms and Conditions.</p>
      <p>The above contract terms are accepted and agreed to as of the date of last signature by an authorized signatory of each party:</p>
      <div class="grid">
        <div>
          <div class="sig-line"></div>
          <div><strong>Name:</strong> {{.Company.SignatoryName}}</div>
          <div><strong>Company:</strong> {{.Company.Name}}</div>
          <div><strong>Title:</strong> {{.Company.SignatoryTitle}}</div>
        </div>
        <div>
          <div class="sig-line"></div>
          <div><strong>Name:</strong></div>
          <div><strong>Company:</strong> {{.CustomerName}}</div>
          <div><strong>Title:</strong></div>
        </div>
      </div>
    </div>
  </div>
</body>
</html>
`

// Company describes the issuing company printed in the document header and
// signature block.
type Company struct {
	Name           string
	Address        []string
	Phone          string
	SignatoryName  string
	SignatoryTitle string
}

// RenderInput bundles everything the HTML renderer needs.
type RenderInput struct {
	Document     Document
	Company      Company
	CustomerName string
}

// Renderer produces a printable representation of an assembled document.
type Renderer interface {
	RenderHTML(input RenderInput) (string, error)
}

// HTMLRenderer renders the document as a standalone printable HTML page.
type HTMLRenderer struct {
	tpl *template.Template
}

// NewRenderer builds the HTML renderer with its parsed template.
func NewRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tpl: template.Must(template.New("orderform").Parse(orderFormHTMLTemplate)),
	}
}

// RenderHTML executes the template over the input.
func (r *HTMLRenderer) RenderHTML(input RenderInput) (string, error) {
	if strings.TrimSpace(input.Company.Name) == "" {
		input.Company.Name = "Order Form"
	}
	var buf bytes.Buffer
	if err := r.tpl.Execute(&buf, input); err != nil {
		return "", err
	}
	return buf.String(), nil
}
