// Package notify turns a freshly created answer into notification
// records: one for the question author when somebody else answers,
// and one per distinct resolved @mention in the answer body. The
// whole step is best-effort; failures are logged and swallowed so
// answer creation is never rolled back because a notification could
// not be produced.
package notify

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/iliyamo/qa-forum/internal/model"
	"github.com/iliyamo/qa-forum/internal/queue"
	"github.com/iliyamo/qa-forum/internal/repository"
	queue_publisher "github.com/iliyamo/qa-forum/internal/service"
)

// mentionPattern matches an @ followed by one or more word
// characters (letters, digits, underscore).
var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions returns the distinct usernames mentioned in text,
// in order of first occurrence. It is a pure string scan with no
// storage dependency; resolution against real users happens later.
func ExtractMentions(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	names := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		name := m[1]
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// Notifier dispatches notifications for answer creation events.
type Notifier struct {
	Users         *repository.UserRepo
	Notifications *repository.NotificationRepo
}

// NewNotifier constructs a Notifier with the given repositories.
func NewNotifier(users *repository.UserRepo, notifications *repository.NotificationRepo) *Notifier {
	if users == nil || notifications == nil {
		panic("nil repository passed to NewNotifier")
	}
	return &Notifier{Users: users, Notifications: notifications}
}

// emit stores one notification row and publishes the matching
// notification.created event. Both steps are best-effort: errors are
// logged and the dispatcher moves on.
func (n *Notifier) emit(ctx context.Context, recipient model.User, message string) {
	id, err := n.Notifications.Create(ctx, recipient.ID, message)
	if err != nil {
		log.Printf("notify: store notification for user %d failed: %v", recipient.ID, err)
		return
	}
	// Publisher errors are already logged inside queue_publisher.
	_ = queue_publisher.PublishNotificationCreated(ctx, queue.NotificationCreatedEvent{
		NotificationID:    id,
		RecipientID:       recipient.ID,
		RecipientUsername: recipient.Username,
		Message:           message,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	})
}

// AnswerCreated runs once, synchronously, after an answer has been
// stored. The reply notification (if due) is emitted before any
// mention notifications so test output is deterministic.
func (n *Notifier) AnswerCreated(ctx context.Context, question model.Question, answer model.Answer, author model.User) {
	if question.AuthorID != author.ID {
		questionAuthor, err := n.Users.GetByID(ctx, question.AuthorID)
		if err != nil {
			log.Printf("notify: load question author %d failed: %v", question.AuthorID, err)
		} else {
			n.emit(ctx, questionAuthor,
				fmt.Sprintf("%s answered your question: '%s'", author.Username, question.Title))
		}
	}

	mentions := ExtractMentions(answer.Description)
	if len(mentions) == 0 {
		return
	}
	// Unknown usernames drop out here: GetByUsernames only returns
	// rows that exist.
	mentioned, err := n.Users.GetByUsernames(ctx, mentions)
	if err != nil {
		log.Printf("notify: resolve mentions failed: %v", err)
		return
	}
	for _, u := range mentioned {
		if u.ID == author.ID {
			continue // never notify the answer's own author
		}
		n.emit(ctx, u, fmt.Sprintf("%s mentioned you in an answer.", author.Username))
	}
}
