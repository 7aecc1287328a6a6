package services

import (
	"context"
	"fmt"
	"log"

	"rentsplit-backend/config"
	"rentsplit-backend/models"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"
)

// Notifier is the outbound notification seam. Every call is fire-and-forget:
// failures are logged and never propagated to the caller.
type Notifier interface {
	NotifyInvitation(toEmail, inviterName, householdName string)
	NotifyMemberAdded(user models.User, householdName string)
	NotifySettlementCompleted(receiver models.User, payerName string, amount float64)
}

type NotificationService struct {
	cfg       *config.Config
	messaging *messaging.Client
}

func NewNotificationService(cfg *config.Config) *NotificationService {
	ns := &NotificationService{cfg: cfg}

	app, err := firebase.NewApp(context.Background(), nil, option.WithCredentialsFile(cfg.FirebaseCredPath))
	if err != nil {
		log.Println("⚠️  Firebase not configured, running without push notifications:", err)
		return ns
	}
	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Println("⚠️  Firebase messaging unavailable:", err)
		return ns
	}
	ns.messaging = client
	return ns
}

// NotifyInvitation emails a not-yet-registered user that they were added to
// a household.
func (ns *NotificationService) NotifyInvitation(toEmail, inviterName, householdName string) {
	subject := fmt.Sprintf("%s has invited you to %s!", inviterName, ns.cfg.AppName)
	plain := fmt.Sprintf("%s invited you to join %s on %s. Visit %s to join.",
		inviterName, householdName, ns.cfg.AppName, ns.cfg.AppURL)
	html := fmt.Sprintf(
		"<h2>You’ve been invited!</h2><p>%s invited you to join <strong>%s</strong> on %s.</p><p><a href=%q>Join now</a></p>",
		inviterName, householdName, ns.cfg.AppName, ns.cfg.AppURL)

	ns.sendEmail(toEmail, subject, plain, html)
}

func (ns *NotificationService) NotifyMemberAdded(user models.User, householdName string) {
	ns.sendPush(user.FCMToken, householdName, fmt.Sprintf("You were added to %s", householdName))
}

func (ns *NotificationService) NotifySettlementCompleted(receiver models.User, payerName string, amount float64) {
	ns.sendPush(receiver.FCMToken, "Payment received",
		fmt.Sprintf("%s paid you $%.2f", payerName, amount))
}

func (ns *NotificationService) sendEmail(toEmail, subject, plain, html string) {
	if ns.cfg.SendGridAPIKey == "" {
		log.Printf("⚠️  SendGrid API key not set, skipping email to %s", toEmail)
		return
	}

	from := mail.NewEmail(ns.cfg.AppName, ns.cfg.SendGridFrom)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, html)

	client := sendgrid.NewSendClient(ns.cfg.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		log.Printf("❌ Failed to send email to %s: %v", toEmail, err)
		return
	}
	if resp.StatusCode >= 300 {
		log.Printf("⚠️  SendGrid returned status %d for %s", resp.StatusCode, toEmail)
		return
	}
	log.Printf("✅ Invite email sent to %s", toEmail)
}

func (ns *NotificationService) sendPush(fcmToken, title, body string) {
	if ns.messaging == nil || fcmToken == "" {
		return
	}

	_, err := ns.messaging.Send(context.Background(), &messaging.Message{
		Token: fcmToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		log.Printf("❌ Push notification failed: %v", err)
		return
	}
	log.Printf("✅ Push notification sent")
}
