// Package notify delivers review confirmation messages through shoutrrr services.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
)

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New returns a shoutrrr-backed Sender for the configured URLs, or a Sender that
// only logs messages when none are configured.
func New(cfg *Config, logger *slog.Logger) (Sender, error) {
	logger = logger.With("system", "notify")

	if len(cfg.URLs) == 0 {
		logger.Warn("no notification URLs configured, messages will be logged only")
		return &logSender{logger: logger}, nil
	}

	r, err := shoutrrr.CreateSender(cfg.URLs...)
	if err != nil {
		return nil, fmt.Errorf("create notification sender: %w", err)
	}
	if d := cfg.TimeoutDuration(); d > 0 {
		r.Timeout = d
	}
	r.SetLogger(log.New(io.Discard, "", 0))

	return &shoutrrrSender{
		router:         r,
		from:           cfg.From,
		recipientParam: cfg.RecipientParam,
		logger:         logger,
	}, nil
}

type shoutrrrSender struct {
	router         *router.ServiceRouter
	from           string
	recipientParam string
	logger         *slog.Logger
}

func (s *shoutrrrSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := stypes.Params{}
	if msg.Subject != "" {
		params.SetTitle(msg.Subject)
	}
	if s.recipientParam != "" && msg.To != "" {
		params[s.recipientParam] = msg.To
	}

	body := msg.Body
	if s.from != "" {
		body += "\n\n-- " + s.from
	}

	if errs := s.router.Send(body, &params); len(errs) > 0 {
		if err := errors.Join(errs...); err != nil {
			return fmt.Errorf("send notification: %w", err)
		}
	}

	s.logger.Info("notification sent", "subject", msg.Subject)
	return nil
}

type logSender struct {
	logger *slog.Logger
}

func (s *logSender) Send(_ context.Context, msg Message) error {
	s.logger.Info("notification", "to", msg.To, "subject", msg.Subject, "body", msg.Body)
	return nil
}
