package msgchan

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type config struct {
	id     uuid.UUID
	name   string
	logger logrus.FieldLogger
}

// Option configures a [Channel].
type Option func(*config)

func defaultConfig() config {
	return config{
		logger: logrus.StandardLogger(),
	}
}

// WithName labels the channel in logs and metrics. By default a channel
// is named after the first segment of its ID.
// It panics if name is empty.
func WithName(name string) Option {
	return func(c *config) {
		if name == "" {
			panic("msgchan: WithName requires a non-empty name")
		}
		c.name = name
	}
}

// WithID sets the channel identity instead of generating a random one.
// It panics if id is [uuid.Nil].
func WithID(id uuid.UUID) Option {
	return func(c *config) {
		if id == uuid.Nil {
			panic("msgchan: WithID requires a non-nil id")
		}
		c.id = id
	}
}

// WithLogger routes lifecycle logging (create, close, destroy) to l.
// The default is the logrus standard logger; events are logged at debug
// level, misuse at warn.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *config) {
		if l == nil {
			panic("msgchan: WithLogger requires a non-nil logger")
		}
		c.logger = l
	}
}
