package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/event-ticketing/internal/mailer"
	"github.com/iliyamo/event-ticketing/internal/queue"
	"github.com/iliyamo/event-ticketing/internal/receipt"
)

// Notifier turns background jobs into emails.  It is the queue.Handler
// run by the job consumer.
type Notifier struct {
	mail     mailer.Sender
	brand    string
	currency string
}

func NewNotifier(mail mailer.Sender, brand, currency string) *Notifier {
	return &Notifier{mail: mail, brand: brand, currency: currency}
}

// Handle dispatches on the job kind.
func (n *Notifier) Handle(ctx context.Context, job queue.Job) error {
	switch job.Kind {
	case queue.KindOrderConfirmed:
		return n.orderConfirmed(ctx, *job.Order)
	case queue.KindUserRegistered:
		return n.welcome(ctx, *job.User)
	}
	return fmt.Errorf("notifier: unsupported job kind %q", job.Kind)
}

func (n *Notifier) welcome(ctx context.Context, j queue.UserRegisteredJob) error {
	html, err := mailer.RenderWelcome(mailer.WelcomeData{Brand: n.brand, Username: j.Username})
	if err != nil {
		return err
	}
	return n.mail.Send(ctx, mailer.Message{
		To:      j.Email,
		Subject: "Welcome to " + n.brand,
		HTML:    html,
	})
}

func (n *Notifier) orderConfirmed(ctx context.Context, j queue.OrderConfirmedJob) error {
	purchased, _ := time.Parse(time.RFC3339, j.PurchasedAt)
	buyer := strings.TrimSpace(j.FirstName + " " + j.LastName)
	data := receipt.Data{
		Brand:          n.brand,
		OrderNumber:    j.OrderNumber,
		PurchasedAt:    purchased,
		EventTitle:     j.EventTitle,
		EventDate:      j.EventDate,
		EventLocation:  j.EventLocation,
		EventStartTime: j.EventStartTime,
		EventEndTime:   j.EventEndTime,
		BuyerName:      buyer,
		Email:          j.Email,
		PhoneNumber:    j.PhoneNumber,
		TShirtSize:     j.TShirtSize,
		Total:          j.Total,
		Currency:       n.currency,
	}
	pdf, err := receipt.Render(data)
	if err != nil {
		return err
	}
	when := ""
	if j.EventStartTime != "" {
		when = strings.TrimSpace(j.EventStartTime + " - " + j.EventEndTime)
	}
	html, err := mailer.RenderOrder(mailer.OrderData{
		Brand:       n.brand,
		BuyerName:   buyer,
		OrderNumber: j.OrderNumber,
		EventTitle:  j.EventTitle,
		EventDate:   j.EventDate,
		Location:    j.EventLocation,
		Time:        when,
		Total:       receipt.FormatAmount(j.Total, n.currency),
	})
	if err != nil {
		return err
	}
	return n.mail.Send(ctx, mailer.Message{
		To:          j.Email,
		Subject:     "Your order " + j.OrderNumber,
		HTML:        html,
		Attachments: []mailer.Attachment{{Name: "receipt-" + j.OrderNumber + ".pdf", Data: pdf}},
	})
}
