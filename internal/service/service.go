// Package service is the dashboard core. A Dashboard is built once at startup
// around a gateway and a user, and every UI surface goes through it.
package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/launchdeck/internal/gateway"
	"github.com/existflow/launchdeck/internal/logger"
)

// Clock abstracts time so flows are deterministic in tests
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in local time, which defines "today"
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Options wires a Dashboard
type Options struct {
	Gateway gateway.Gateway
	UserID  string
	Clock   Clock
	IDs     func() string
	Logger  *logger.Logger
}

// Dashboard runs user flows against a gateway
type Dashboard struct {
	gw     gateway.Gateway
	userID string
	clock  Clock
	ids    func() string
	log    *logger.Logger
}

// New builds a Dashboard. Clock, IDs and Logger are optional.
func New(opts Options) (*Dashboard, error) {
	if opts.Gateway == nil {
		return nil, errors.New("service: gateway is required")
	}
	if opts.UserID == "" {
		return nil, errors.New("service: user id is required")
	}
	d := &Dashboard{
		gw:     opts.Gateway,
		userID: opts.UserID,
		clock:  opts.Clock,
		ids:    opts.IDs,
		log:    opts.Logger.WithFields(logger.F("user_id", opts.UserID)),
	}
	if d.clock == nil {
		d.clock = SystemClock{}
	}
	if d.ids == nil {
		d.ids = uuid.NewString
	}
	return d, nil
}

// UserID returns the user every call is scoped to
func (d *Dashboard) UserID() string {
	return d.userID
}

// Now returns the dashboard clock's current time
func (d *Dashboard) Now() time.Time {
	return d.clock.Now()
}

// UserError carries the message shown to the operator. The cause is kept for
// logs and errors.Is but never displayed.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// fail logs a backend failure and turns it into a generic message such as
// "Failed to create task. Please try again."
func (d *Dashboard) fail(action string, err error, fields ...logger.Field) error {
	d.log.Error("failed to "+action, append(fields, logger.Err(err))...)
	return &UserError{
		Message: fmt.Sprintf("Failed to %s. Please try again.", action),
		Err:     err,
	}
}

// Message returns the text to show for err: the UserError message when there
// is one, otherwise the error itself.
func Message(err error) string {
	var ue *UserError
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}
