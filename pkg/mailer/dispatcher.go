package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mailtpl "github.com/LeeyaD/phonebook-server/pkg/mailer/templates"
)

// ErrBadJob marks a queued job that can never be delivered; it should be
// dropped rather than requeued.
var ErrBadJob = errors.New("bad email job")

// Dispatcher renders queued EmailJobs and hands them to a Sender.
type Dispatcher struct {
	Sender  Sender
	Timeout time.Duration // per send; 15s when zero
}

// Handle decodes one queue message and delivers it. Errors wrapping
// ErrBadJob are permanent; any other error is a failed send.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) error {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if strings.TrimSpace(job.To) == "" {
		return fmt.Errorf("%w: missing recipient", ErrBadJob)
	}

	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		s, t, h, err := mailtpl.Render(job.Template, job.Data)
		if err != nil {
			return fmt.Errorf("%w: render %s: %v", ErrBadJob, job.Template, err)
		}
		subject, text, html = s, t, h
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := d.Sender.Send(c, job.To, subject, text, html); err != nil {
		return fmt.Errorf("send to %s: %w", job.To, err)
	}
	return nil
}
