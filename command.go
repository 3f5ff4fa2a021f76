package bookkeep

import (
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// Command is a one-shot invocation. It gives facades and the timing/logging
// decorators a uniform surface that hides which work is inside.
type Command interface {
	// Describe returns a short human-readable description of the command.
	Describe() string
	// Execute runs the command once.
	Execute() error
}

// RecalculateCommand binds a reconciliation strategy to a specific account,
// operation set, and category resolver. Its result is available only after
// Execute has run.
type RecalculateCommand struct {
	account    *BankAccount
	operations []Operation
	resolve    CategoryResolver
	strategy   ReconciliationStrategy
	result     *ReconciliationResult
}

// NewRecalculateCommand creates a single-use reconciliation command. All
// collaborators are required.
func NewRecalculateCommand(account *BankAccount, operations []Operation, resolve CategoryResolver, strategy ReconciliationStrategy) (*RecalculateCommand, error) {
	if account == nil {
		return nil, errors.New("recalculate command requires an account")
	}
	if resolve == nil {
		return nil, errors.New("recalculate command requires a category resolver")
	}
	if strategy == nil {
		return nil, errors.New("recalculate command requires a strategy")
	}
	return &RecalculateCommand{
		account:    account,
		operations: operations,
		resolve:    resolve,
		strategy:   strategy,
	}, nil
}

// Describe returns the name of the wrapped strategy.
func (c *RecalculateCommand) Describe() string { return c.strategy.Name() }

// Execute runs the strategy and stores its result.
func (c *RecalculateCommand) Execute() error {
	result := c.strategy.Recalculate(c.account, c.operations, c.resolve)
	c.result = &result
	return nil
}

// Result returns the reconciliation result, or nil if the command has not
// been executed yet.
func (c *RecalculateCommand) Result() *ReconciliationResult { return c.result }

// TimedCommand wraps a command and reports its execution duration to a
// callback. The callback fires even when the inner command fails.
type TimedCommand struct {
	inner      Command
	onComplete func(time.Duration)
}

// NewTimedCommand wraps 'inner' so that 'onComplete' receives the elapsed
// execution time.
func NewTimedCommand(inner Command, onComplete func(time.Duration)) (*TimedCommand, error) {
	if inner == nil {
		return nil, errors.New("timed command requires an inner command")
	}
	if onComplete == nil {
		return nil, errors.New("timed command requires a completion callback")
	}
	return &TimedCommand{inner: inner, onComplete: onComplete}, nil
}

func (c *TimedCommand) Describe() string { return c.inner.Describe() }

func (c *TimedCommand) Execute() error {
	start := time.Now()
	defer func() { c.onComplete(time.Since(start)) }()
	return c.inner.Execute()
}

// LoggedCommand wraps a command and logs its start, success, and failure.
type LoggedCommand struct {
	inner  Command
	logger zerolog.Logger
}

// NewLoggedCommand wraps 'inner' so that its lifecycle is logged on 'logger'.
func NewLoggedCommand(inner Command, logger zerolog.Logger) (*LoggedCommand, error) {
	if inner == nil {
		return nil, errors.New("logged command requires an inner command")
	}
	return &LoggedCommand{inner: inner, logger: logger}, nil
}

func (c *LoggedCommand) Describe() string { return c.inner.Describe() }

func (c *LoggedCommand) Execute() error {
	c.logger.Info().Str("command", c.inner.Describe()).Msg("executing command")
	if err := c.inner.Execute(); err != nil {
		c.logger.Error().Str("command", c.inner.Describe()).Err(err).Msg("command failed")
		return err
	}
	c.logger.Info().Str("command", c.inner.Describe()).Msg("command completed")
	return nil
}

// ExecutionStatistics summarizes the durations recorded by a CommandRunner.
type ExecutionStatistics struct {
	TotalExecutions int
	TotalTime       time.Duration
	AverageTime     time.Duration
	MinTime         time.Duration
	MaxTime         time.Duration
}

// CommandRunner executes commands through the timing decorator and
// accumulates their execution times.
type CommandRunner struct {
	logger  zerolog.Logger
	elapsed []time.Duration
}

// NewCommandRunner creates a runner that logs command lifecycles on 'logger'.
func NewCommandRunner(logger zerolog.Logger) *CommandRunner {
	return &CommandRunner{logger: logger}
}

// ExecuteTimed runs the command, recording its duration. The optional
// onTimeMeasured callback also receives the duration.
func (r *CommandRunner) ExecuteTimed(command Command, onTimeMeasured func(time.Duration)) error {
	timed, err := NewTimedCommand(command, func(elapsed time.Duration) {
		r.elapsed = append(r.elapsed, elapsed)
		if onTimeMeasured != nil {
			onTimeMeasured(elapsed)
		}
	})
	if err != nil {
		return err
	}
	return timed.Execute()
}

// ExecuteTimedAndLogged runs the command with both the logging and the
// timing decorators applied.
func (r *CommandRunner) ExecuteTimedAndLogged(command Command, onTimeMeasured func(time.Duration)) error {
	logged, err := NewLoggedCommand(command, r.logger)
	if err != nil {
		return err
	}
	return r.ExecuteTimed(logged, onTimeMeasured)
}

// Statistics returns a summary of all recorded execution times.
func (r *CommandRunner) Statistics() ExecutionStatistics {
	if len(r.elapsed) == 0 {
		return ExecutionStatistics{}
	}
	stats := ExecutionStatistics{
		TotalExecutions: len(r.elapsed),
		MinTime:         r.elapsed[0],
		MaxTime:         r.elapsed[0],
	}
	for _, d := range r.elapsed {
		stats.TotalTime += d
		if d < stats.MinTime {
			stats.MinTime = d
		}
		if d > stats.MaxTime {
			stats.MaxTime = d
		}
	}
	stats.AverageTime = stats.TotalTime / time.Duration(len(r.elapsed))
	return stats
}

// ClearStatistics discards all recorded execution times.
func (r *CommandRunner) ClearStatistics() {
	r.elapsed = nil
}
