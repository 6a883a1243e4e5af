// Package sagas runs multi-step flows that touch more than one system and
// undoes the completed steps when a later one fails.
package sagas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step is one unit of a saga
type Step struct {
	Name       string
	Execute    func(ctx context.Context) error
	Compensate func(ctx context.Context) error
	// Retryable decides whether a failed attempt may be repeated
	Retryable  func(err error) bool
	MaxRetries int
	RetryDelay time.Duration
}

// State is where a saga run stands
type State string

const (
	StatePending      State = "PENDING"
	StateRunning      State = "RUNNING"
	StateCompleted    State = "COMPLETED"
	StateCompensating State = "COMPENSATING"
	StateCompensated  State = "COMPENSATED"
	StateFailed       State = "FAILED"
)

// Saga runs its steps in order
type Saga struct {
	id     string
	name   string
	steps  []Step
	state  State
	logger *zap.Logger
}

// New creates a saga
func New(name string, logger *zap.Logger) *Saga {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saga{
		id:     uuid.New().String(),
		name:   name,
		state:  StatePending,
		logger: logger,
	}
}

// Step appends a step without compensation
func (s *Saga) Step(name string, execute func(ctx context.Context) error) *Saga {
	return s.Add(Step{Name: name, Execute: execute})
}

// CompensableStep appends a step that can be undone
func (s *Saga) CompensableStep(name string, execute, compensate func(ctx context.Context) error) *Saga {
	return s.Add(Step{Name: name, Execute: execute, Compensate: compensate})
}

// Add appends a fully specified step
func (s *Saga) Add(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// State reports the state of the last run
func (s *Saga) State() State { return s.state }

// Execute runs every step. When one fails, the completed steps are compensated
// newest first and the step's error is returned unwrapped.
func (s *Saga) Execute(ctx context.Context) error {
	s.state = StateRunning
	log := s.logger.With(zap.String("saga_id", s.id), zap.String("saga", s.name))
	log.Debug("Starting saga", zap.Int("steps", len(s.steps)))

	for i, step := range s.steps {
		if err := s.runStep(ctx, step); err != nil {
			log.Warn("Saga step failed", zap.String("step", step.Name), zap.Error(err))

			s.state = StateCompensating
			if cerr := s.compensate(ctx, s.steps[:i]); cerr != nil {
				s.state = StateFailed
				log.Error("Saga compensation failed", zap.Error(cerr))
				return err
			}
			s.state = StateCompensated
			return err
		}
	}

	s.state = StateCompleted
	log.Debug("Saga completed")
	return nil
}

func (s *Saga) runStep(ctx context.Context, step Step) error {
	var err error
	for attempt := 0; attempt <= step.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(step.RetryDelay * time.Duration(attempt)):
			}
		}
		if err = step.Execute(ctx); err == nil {
			return nil
		}
		if step.Retryable == nil || !step.Retryable(err) {
			return err
		}
	}
	return err
}

// compensate undoes done steps newest first, continuing past failures
func (s *Saga) compensate(ctx context.Context, done []Step) error {
	var failed []string
	for i := len(done) - 1; i >= 0; i-- {
		step := done[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil {
			s.logger.Error("Compensation step failed",
				zap.String("saga_id", s.id),
				zap.String("step", step.Name),
				zap.Error(err),
			)
			failed = append(failed, step.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("compensation failed for steps %v", failed)
	}
	return nil
}
