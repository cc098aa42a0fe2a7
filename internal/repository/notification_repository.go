package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/qa-forum/internal/model"
)

// NotificationRepo persists notification records. Rows are written
// as a side effect of answer creation; delivery and read state are
// handled by downstream consumers, not here.
type NotificationRepo struct{ DB *sql.DB }

func NewNotificationRepo(db *sql.DB) *NotificationRepo { return &NotificationRepo{DB: db} }

// Create inserts a notification row and returns its ID.
func (r *NotificationRepo) Create(ctx context.Context, recipientID uint64, message string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO notifications (recipient_id, message) VALUES (?,?)",
		recipientID, message)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByRecipient returns a user's notifications, newest first.
func (r *NotificationRepo) ListByRecipient(ctx context.Context, recipientID uint64) ([]model.Notification, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, recipient_id, message, created_at FROM notifications WHERE recipient_id = ? ORDER BY created_at DESC",
		recipientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []model.Notification{}
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
