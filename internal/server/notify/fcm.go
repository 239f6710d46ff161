package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// sender is the part of *messaging.Client used by FCMPusher.
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// newMessagingClient is a seam for testing Firebase initialization.
var newMessagingClient = func(ctx context.Context, credentialsFile string) (sender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm client: %w", err)
	}
	return client, nil
}

// FCMPusher delivers messages through Firebase Cloud Messaging.
type FCMPusher struct {
	client sender
}

// NewFCMPusher initializes the Firebase app from a service account file.
func NewFCMPusher(ctx context.Context, credentialsFile string) (*FCMPusher, error) {
	client, err := newMessagingClient(ctx, credentialsFile)
	if err != nil {
		return nil, err
	}
	return &FCMPusher{client: client}, nil
}

func (p *FCMPusher) Push(ctx context.Context, token string, msg *Message) error {
	_, err := p.client.Send(ctx, &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title:    msg.Title,
			Body:     msg.Body,
			ImageURL: msg.Data[DataIcon],
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	})
	if err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("token unregistered: %w", err)
		}
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
