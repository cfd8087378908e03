package fcm

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// Client wraps Firebase Cloud Messaging. A nil inner client means FCM
// is not configured and every send becomes a no-op error.
type Client struct {
	client *messaging.Client
	logger zerolog.Logger
}

// NewClient initializes the messaging client from
// FIREBASE_CREDENTIALS_PATH or an inline FIREBASE_CREDENTIALS_JSON.
// Missing credentials disable FCM instead of failing startup.
func NewClient(logger zerolog.Logger) (*Client, error) {
	logger = logger.With().Str("component", "fcm").Logger()
	ctx := context.Background()

	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credJSON := os.Getenv("FIREBASE_CREDENTIALS_JSON")
		if credJSON == "" {
			logger.Warn().Msg("No Firebase credentials found, push notifications disabled")
			return &Client{client: nil, logger: logger}, nil
		}

		tmpFile, err := os.CreateTemp("", "firebase-credentials-*.json")
		if err != nil {
			return nil, fmt.Errorf("failed to create temp file: %w", err)
		}
		defer tmpFile.Close()

		if _, err := tmpFile.Write([]byte(credJSON)); err != nil {
			return nil, fmt.Errorf("failed to write credentials: %w", err)
		}
		credPath = tmpFile.Name()
	}

	opt := option.WithCredentialsFile(credPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %w", err)
	}

	logger.Info().Msg("Firebase Cloud Messaging initialized")
	return &Client{client: client, logger: logger}, nil
}

// SendNotification sends a push notification to one device token.
func (c *Client) SendNotification(token, title, body string, data map[string]string) error {
	if c.client == nil {
		return fmt.Errorf("FCM client not initialized")
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "advisor_alerts",
				Priority:  messaging.PriorityHigh,
			},
		},
	}

	response, err := c.client.Send(context.Background(), message)
	if err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	c.logger.Debug().Str("response", response).Msg("Message sent")
	return nil
}

// SendMulticast sends a notification to multiple tokens.
func (c *Client) SendMulticast(tokens []string, title, body string, data map[string]string) error {
	if c.client == nil {
		return fmt.Errorf("FCM client not initialized")
	}
	if len(tokens) == 0 {
		return nil
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "advisor_alerts",
				Priority:  messaging.PriorityHigh,
			},
		},
	}

	response, err := c.client.SendEachForMulticast(context.Background(), message)
	if err != nil {
		return fmt.Errorf("error sending multicast: %w", err)
	}
	c.logger.Debug().
		Int("success", response.SuccessCount).
		Int("failures", response.FailureCount).
		Msg("Multicast sent")
	return nil
}

// IsEnabled reports whether FCM is configured.
func (c *Client) IsEnabled() bool {
	return c.client != nil
}
