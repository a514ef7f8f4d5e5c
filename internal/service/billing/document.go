package billing

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/google/uuid"

	"github.com/guhospital/hms-api/internal/access"
	"github.com/guhospital/hms-api/internal/model"
)

var invoiceTmpl = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"rupees": formatMinorUnits,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Invoice.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
.total { font-weight: bold; }
</style>
</head>
<body>
<h1>GU Hospital</h1>
<h2>Invoice {{.Invoice.ID}}</h2>
<p>Date: {{.Invoice.InvoiceDate.Format "2006-01-02"}}</p>
{{if .Patient}}<p>Billed to: {{.Patient.FullName}}</p>{{end}}
<p>Status: {{.Invoice.Status}}</p>
<table>
<tr><th>Description</th><th>Qty</th><th>Unit price</th><th>Amount</th></tr>
{{range .Items}}
<tr><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{rupees .UnitPrice}}</td><td>{{rupees .Amount}}</td></tr>
{{end}}
<tr class="total"><td colspan="3">Total</td><td>{{rupees .Invoice.TotalAmount}}</td></tr>
</table>
{{if .Invoice.Notes}}<p>{{.Invoice.Notes}}</p>{{end}}
</body>
</html>
`))

func formatMinorUnits(v int64) string {
	return fmt.Sprintf("Rs. %d.%02d", v/100, v%100)
}

// RenderDocument produces the printable HTML for an invoice
func (s *Service) RenderDocument(ctx context.Context, actor access.Actor, id uuid.UUID) ([]byte, error) {
	detail, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	data := struct {
		Invoice *model.Invoice
		Patient *model.UserSummary
		Items   []*model.InvoiceItem
	}{
		Invoice: &detail.Invoice,
		Patient: detail.Patient,
		Items:   detail.Items,
	}

	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render invoice: %w", err)
	}
	return buf.Bytes(), nil
}
