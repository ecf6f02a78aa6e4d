// Package notifications delivers push messages to the devices users
// registered, through Firebase Cloud Messaging or the Expo push service.
package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	defaultExpoURL = "https://exp.host/--/api/v2/push/send"
	channelID      = "achievements"
)

type Notifier interface {
	Notify(ctx context.Context, token, title, body string, data map[string]string) error
}

// NopNotifier drops every message. It is used when Firebase is not configured.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, string, string, string, map[string]string) error {
	return nil
}

type messageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FCMNotifier sends through FCM, or through Expo for Expo push tokens.
type FCMNotifier struct {
	fcm     messageSender
	expoURL string
	http    *http.Client
	logger  *zap.SugaredLogger
}

// NewFCMNotifier initializes the Firebase app from a service account file,
// or from application default credentials when no path is given.
func NewFCMNotifier(ctx context.Context, projectID, serviceAccountPath string, logger *zap.SugaredLogger) (*FCMNotifier, error) {
	var opts []option.ClientOption
	if serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get FCM client: %w", err)
	}
	return newNotifier(client, defaultExpoURL, logger), nil
}

func newNotifier(fcm messageSender, expoURL string, logger *zap.SugaredLogger) *FCMNotifier {
	return &FCMNotifier{
		fcm:     fcm,
		expoURL: expoURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func isExpoToken(token string) bool {
	return strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")
}

func (n *FCMNotifier) Notify(ctx context.Context, token, title, body string, data map[string]string) error {
	if token == "" {
		return fmt.Errorf("empty push token")
	}
	if isExpoToken(token) {
		return n.sendExpoPush(ctx, token, title, body, data)
	}

	badge := 1
	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Notification: &messaging.AndroidNotification{
				ChannelID: channelID,
				Priority:  messaging.PriorityHigh,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: title,
						Body:  body,
					},
					Sound: "default",
					Badge: &badge,
				},
			},
		},
	}

	id, err := n.fcm.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	n.logger.Debugw("Sent push notification", "message_id", id)
	return nil
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Sound string            `json:"sound"`
	Data  map[string]string `json:"data,omitempty"`
}

func (n *FCMNotifier) sendExpoPush(ctx context.Context, token, title, body string, data map[string]string) error {
	b, err := json.Marshal([]expoMessage{{To: token, Title: title, Body: body, Sound: "default", Data: data}})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.expoURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("expo push failed with status %d", resp.StatusCode)
	}
	return nil
}
