package service

import (
	"errors"

	"github.com/okian/fitcheck/internal/adapters/mq/queue"
)

// Sentinel kinds returned by the service.
var (
	ErrNotStarted = errors.New("service not started")
	// ErrQueueFull is returned by SubmitWear under backpressure.
	ErrQueueFull = queue.ErrFull
)
