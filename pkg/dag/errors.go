package dag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
)

// ErrCycle is wrapped by errors of CycleError.
var ErrCycle = errors.New("tasks have cyclic dependencies")

// TaskError is returned when a task failed after all its attempts.
type TaskError struct {
	Task     string
	Attempts int
	Err      error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s failed after %d attempt(s): %v",
		e.Task, e.Attempts, e.Err)
}

func (e *TaskError) Unwrap() error {
	return e.Err
}

func EmptyNameError(pos int) error {
	msg := "Task at position %d has no name"
	return &gn.Error{
		Code: errcode.FlowGraphError,
		Msg:  msg,
		Vars: []any{pos},
		Err:  fmt.Errorf("task %d: empty name", pos),
	}
}

func DuplicateTaskError(name string) error {
	msg := "Task <em>%s</em> is defined more than once"
	return &gn.Error{
		Code: errcode.FlowGraphError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("duplicate task %s", name),
	}
}

func NoRunError(name string) error {
	msg := "Task <em>%s</em> has nothing to run"
	return &gn.Error{
		Code: errcode.FlowGraphError,
		Msg:  msg,
		Vars: []any{name},
		Err:  fmt.Errorf("task %s: nil Run", name),
	}
}

func UnknownDependencyError(name, dep string) error {
	msg := "Task <em>%s</em> depends on unknown task <em>%s</em>"
	return &gn.Error{
		Code: errcode.FlowGraphError,
		Msg:  msg,
		Vars: []any{name, dep},
		Err:  fmt.Errorf("task %s: unknown dependency %s", name, dep),
	}
}

func CycleError(tasks []string) error {
	msg := "Tasks <em>%s</em> depend on each other"
	names := strings.Join(tasks, ", ")
	return &gn.Error{
		Code: errcode.FlowGraphError,
		Msg:  msg,
		Vars: []any{names},
		Err:  fmt.Errorf("%s: %w", names, ErrCycle),
	}
}

func CancelledError(err error) error {
	msg := "Run was cancelled"
	return &gn.Error{
		Code: errcode.FlowCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("cancelled: %w", err),
	}
}
