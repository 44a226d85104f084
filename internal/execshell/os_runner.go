package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
)

// OSCommandRunner executes commands using the operating system facilities.
// Commands flagged with StreamOutput write directly to the configured output
// streams instead of capturing them, matching the tool's normal interactive
// behavior.
type OSCommandRunner struct {
	standardOutputStream io.Writer
	standardErrorStream  io.Writer
}

// NewOSCommandRunner constructs a runner backed by os/exec that streams to the process's standard streams.
func NewOSCommandRunner() *OSCommandRunner {
	return NewOSCommandRunnerWithOutputStreams(os.Stdout, os.Stderr)
}

// NewOSCommandRunnerWithOutputStreams constructs a runner that streams non-captured output to the provided writers.
func NewOSCommandRunnerWithOutputStreams(standardOutputStream io.Writer, standardErrorStream io.Writer) *OSCommandRunner {
	return &OSCommandRunner{standardOutputStream: standardOutputStream, standardErrorStream: standardErrorStream}
}

// Run executes the supplied command using os/exec.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	if command.Details.StreamOutput {
		executable.Stdout = runner.standardOutputStream
		executable.Stderr = runner.standardErrorStream
	} else {
		executable.Stdout = &standardOutputBuffer
		executable.Stderr = &standardErrorBuffer
	}

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput:     standardOutputBuffer.String(),
				StandardError:      standardErrorBuffer.String(),
				ExitCode:           exitError.ExitCode(),
				TerminatedBySignal: exitStatusSignaled(exitError),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

func exitStatusSignaled(exitError *exec.ExitError) bool {
	waitStatus, waitStatusAvailable := exitError.Sys().(syscall.WaitStatus)
	if !waitStatusAvailable {
		return false
	}
	return waitStatus.Signaled()
}
