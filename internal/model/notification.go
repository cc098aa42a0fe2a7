package model

import "time"

// Notification represents a row in the `notifications` table.  A
// notification is produced as a side effect of answer creation:
// one for the question author when somebody else answers, and one
// per resolved @mention in the answer body.  Delivery and read
// state are handled downstream; this table only records that the
// event happened.
//
// Fields:
//  ID          – primary key identifier.
//  RecipientID – user the notification is addressed to.
//  Message     – human readable notification text.
//  CreatedAt   – creation timestamp.
type Notification struct {
    ID          uint64    // notifications.id
    RecipientID uint64    // notifications.recipient_id
    Message     string    // notifications.message
    CreatedAt   time.Time // notifications.created_at
}
