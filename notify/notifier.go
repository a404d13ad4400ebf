// Package notify delivers fire-and-forget notifications to the external
// notifications service. Delivery is best effort: failures are logged and
// the circuit breaker sheds load when the service is down.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Tanish6738/project-management-sub001/logging"

	"github.com/sony/gobreaker"
)

type notificationPayload struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

type Notifier struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// NewNotifier builds a notifier for the given service URL. An empty URL
// yields a notifier that only logs.
func NewNotifier(baseURL string, client *http.Client, breaker *gobreaker.CircuitBreaker) *Notifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Notifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		breaker: breaker,
	}
}

// NotifyUsers sends one notification per user. No delivery guarantee; the
// caller never sees an error.
func (n *Notifier) NotifyUsers(userIDs []string, message string) {
	if n.baseURL == "" {
		logging.Logger.Infof("Event ID: NOTIFY_SKIPPED, Description: No notifications service configured, message dropped: %s", message)
		return
	}

	for _, userID := range userIDs {
		payload := notificationPayload{UserID: userID, Message: message}
		_, err := n.breaker.Execute(func() (interface{}, error) {
			return nil, n.post(payload)
		})
		if err != nil {
			logging.Logger.Warnf("Event ID: NOTIFY_FAILED, Description: Failed to notify user %s: %v", userID, err)
		}
	}
}

func (n *Notifier) post(payload notificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := n.client.Post(n.baseURL+"/api/notifications", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notifications service returned %s", resp.Status)
	}
	return nil
}
