// Package queue defines message payloads exchanged over the message broker.
package queue

// NotificationCreatedEvent is published whenever a notification record is
// written. It carries enough information for downstream consumers to log
// or deliver the notification without querying the primary database.
type NotificationCreatedEvent struct {
    NotificationID    uint64 `json:"notification_id"`
    RecipientID       uint64 `json:"recipient_id"`
    RecipientUsername string `json:"recipient_username"`
    Message           string `json:"message"`
    CreatedAt         string `json:"created_at"`
}
