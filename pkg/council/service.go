// Package council implements the duty lifecycle: events fan out duties,
// students request changes, admins resolve them, and attendance is tracked
// against the resulting assignments.
package council

import (
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service runs every council operation against a shared database
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithClock overrides the time source used for check-in, check-out and review timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service. A nil logger disables logging.
func NewService(db *gorm.DB, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{db: db, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
