package devtasks

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Step is a single external program invocation
type Step struct {
	Name string   `yaml:"name"`
	Exe  string   `yaml:"exe"`
	Args []string `yaml:"args,flow"`
	// Activated steps run with the isolated environment's bin directory at the front of PATH.
	Activated bool `yaml:"activated"`
}

// Argv returns the executable followed by its arguments
func (s Step) Argv() []string {
	argv := make([]string, 0, len(s.Args)+1)
	argv = append(argv, s.Exe)
	return append(argv, s.Args...)
}

// String renders the step as a shell command line. The result is only meant for display, steps
// are never executed by reparsing it.
func (s Step) String() string {
	parts := make([]string, 0, len(s.Args)+1)
	for _, arg := range s.Argv() {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			quoted = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, quoted)
	}

	return strings.Join(parts, " ")
}

// Task is an ordered pipeline of steps
type Task struct {
	Short string `yaml:"task"`
	Desc  string `yaml:"desc"`
	Steps []Step `yaml:"steps"`
}

// TaskList maps short names to each relevant task
type TaskList map[string]*Task

// StepError is returned when a step fails. It aborts the remaining steps of the task.
type StepError struct {
	Task  string
	Step  string
	Index int
	Code  int
	Err   error
}

func (e *StepError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: step %d (%s) failed: %s", e.Task, e.Index+1, e.Step, e.Err.Error())
	}
	return fmt.Sprintf("%s: step %d (%s) exited with status %d", e.Task, e.Index+1, e.Step, e.Code)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code the process should terminate with
func (e *StepError) ExitCode() int {
	if e.Code == 0 {
		return 1
	}
	return e.Code
}
