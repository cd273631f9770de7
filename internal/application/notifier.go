package application

import (
	"context"

	"github.com/LeeyaD/phonebook-server/internal/domain/entity"
	"github.com/LeeyaD/phonebook-server/pkg/mailer"
	mailtpl "github.com/LeeyaD/phonebook-server/pkg/mailer/templates"
)

// JobPublisher puts a JSON job on a queue.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailNotifier queues a user_registered email to an operator address.
type EmailNotifier struct {
	Publisher JobPublisher
	To        string
	AppName   string
}

func (n *EmailNotifier) UserRegistered(ctx context.Context, u entity.User) error {
	job := mailer.EmailJob{
		To:       n.To,
		Template: mailtpl.UserRegistered,
		Data: mailtpl.ToMap(mailtpl.EmailData{
			AppName:      n.AppName,
			Username:     u.Username,
			Name:         u.Name,
			UserID:       u.ID,
			RegisteredAt: u.CreatedAt,
		}),
	}
	return n.Publisher.PublishJSON(ctx, job)
}
