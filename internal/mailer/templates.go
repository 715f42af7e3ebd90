package mailer

import (
	"bytes"
	"html/template"
)

// WelcomeData fills the registration email.
type WelcomeData struct {
	Brand    string
	Username string
}

// OrderData fills the order confirmation email.
type OrderData struct {
	Brand       string
	BuyerName   string
	OrderNumber string
	EventTitle  string
	EventDate   string
	Location    string
	Time        string
	Total       string
}

var (
	welcomeTmpl = template.Must(template.New("welcome").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<h2>Welcome to {{.Brand}}, {{.Username}}!</h2>
<p>Your account is ready. You can now buy tickets and find your orders in your profile.</p>
<p>See you at the next event,<br>The {{.Brand}} team</p>
</body></html>`))

	orderTmpl = template.Must(template.New("order").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<h2>Thank you for your order, {{.BuyerName}}!</h2>
<table cellpadding="4">
<tr><td><b>Order number</b></td><td>{{.OrderNumber}}</td></tr>
{{if .EventTitle}}<tr><td><b>Event</b></td><td>{{.EventTitle}}</td></tr>{{end}}
{{if .EventDate}}<tr><td><b>Date</b></td><td>{{.EventDate}}</td></tr>{{end}}
{{if .Time}}<tr><td><b>Time</b></td><td>{{.Time}}</td></tr>{{end}}
{{if .Location}}<tr><td><b>Location</b></td><td>{{.Location}}</td></tr>{{end}}
<tr><td><b>Total</b></td><td>{{.Total}}</td></tr>
</table>
<p>Your receipt is attached.</p>
<p>The {{.Brand}} team</p>
</body></html>`))
)

// RenderWelcome renders the registration email body.
func RenderWelcome(d WelcomeData) (string, error) { return render(welcomeTmpl, d) }

// RenderOrder renders the order confirmation email body.
func RenderOrder(d OrderData) (string, error) { return render(orderTmpl, d) }

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
