// services/notification_service.go
package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/gomail.v2"

	"github.com/earnease/earnease_backend/models"
	"github.com/earnease/earnease_backend/websocket"
)

// NotificationService fans a settlement decision out to email, FCM push and
// the websocket hub. Every channel is best effort; delivery failures are
// logged and never propagate to the caller.
type NotificationService struct {
	firebaseApp *firebase.App
	hub         *websocket.Hub
	users       userGetter

	smtpHost string
	smtpPort int
	smtpUser string
	smtpPass string
}

type userGetter interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

func NewNotificationService(firebaseApp *firebase.App, hub *websocket.Hub, users userGetter) *NotificationService {
	smtpPort := 2525
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		fmt.Sscanf(portStr, "%d", &smtpPort)
	}
	return &NotificationService{
		firebaseApp: firebaseApp,
		hub:         hub,
		users:       users,
		smtpHost:    os.Getenv("SMTP_HOST"),
		smtpPort:    smtpPort,
		smtpUser:    os.Getenv("SMTP_USER"),
		smtpPass:    os.Getenv("SMTP_PASS"),
	}
}

// RequestSettled notifies a user that an admin decided their request.
func (s *NotificationService) RequestSettled(userID primitive.ObjectID, email string, view *models.SettlementView, status models.RequestStatus) {
	title, body := settlementMessage(view, status)

	if s.hub != nil {
		err := s.hub.SendToUser(userID, websocket.Notification{
			Type:    websocket.NotificationTypeRequestSettled,
			Message: body,
			UserID:  userID.Hex(),
			Data: map[string]interface{}{
				"kind":      string(view.Kind),
				"requestId": view.ID.Hex(),
				"status":    string(status),
				"amount":    view.Amount,
			},
		})
		if err != nil {
			log.Printf("websocket notify skipped for user %s: %v", userID.Hex(), err)
		}
	}

	s.sendEmail(email, title, body)
	s.sendPush(userID, title, body, view)
}

func settlementMessage(view *models.SettlementView, status models.RequestStatus) (string, string) {
	kindLabel := map[models.RequestKind]string{
		models.KindTopup:    "top-up",
		models.KindWithdraw: "withdrawal",
		models.KindRecharge: "mobile recharge",
		models.KindGmail:    "Gmail sale",
		models.KindForm:     "form submission",
	}[view.Kind]

	if status == models.StatusSuccess {
		title := fmt.Sprintf("Your %s was approved", kindLabel)
		return title, fmt.Sprintf("Your %s request for %d has been approved.", kindLabel, view.Amount)
	}
	title := fmt.Sprintf("Your %s was rejected", kindLabel)
	return title, fmt.Sprintf("Your %s request for %d has been rejected. Contact support if you believe this is a mistake.", kindLabel, view.Amount)
}

func (s *NotificationService) sendEmail(to, subject, body string) {
	if s.smtpHost == "" || to == "" {
		return
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.smtpUser)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body+"\n\nBest regards,\nThe EarnEase Team")

	d := gomail.NewDialer(s.smtpHost, s.smtpPort, s.smtpUser, s.smtpPass)
	if err := d.DialAndSend(m); err != nil {
		log.Printf("Failed to send settlement email to %s: %v", maskEmail(to), err)
	}
}

func (s *NotificationService) sendPush(userID primitive.ObjectID, title, body string, view *models.SettlementView) {
	if s.firebaseApp == nil || s.users == nil {
		return
	}
	ctx := context.Background()

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Printf("push skipped, cannot load user %s: %v", userID.Hex(), err)
		return
	}
	if user.FCMToken == "" {
		return
	}

	client, err := s.firebaseApp.Messaging(ctx)
	if err != nil {
		log.Printf("Error getting messaging client: %v", err)
		return
	}

	message := &messaging.Message{
		Token: user.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: map[string]string{
			"kind":      string(view.Kind),
			"requestId": view.ID.Hex(),
			"status":    string(view.Status),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     "default",
				ChannelID: "earnease_fcm_channel",
			},
		},
	}

	if _, err := client.Send(ctx, message); err != nil {
		log.Printf("Error sending FCM notification to user %s: %v", userID.Hex(), err)
	}
}

func maskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
