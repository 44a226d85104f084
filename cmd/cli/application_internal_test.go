package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func executeApplicationCommand(testInstance *testing.T, arguments ...string) (string, error) {
	testInstance.Helper()

	application := NewApplication()
	outputBuffer := &bytes.Buffer{}
	application.rootCommand.SetOut(outputBuffer)
	application.rootCommand.SetErr(outputBuffer)
	application.rootCommand.SetArgs(arguments)

	executionError := application.Execute()
	return outputBuffer.String(), executionError
}

func TestApplicationRootCommandShowsHelp(testInstance *testing.T) {
	output, executionError := executeApplicationCommand(testInstance)

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, applicationNameConstant)
	require.Contains(testInstance, output, "sync")
}

func TestApplicationVersionFlagPrintsVersion(testInstance *testing.T) {
	output, executionError := executeApplicationCommand(testInstance, "--version")

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, applicationVersionConstant)
}

func TestApplicationRejectsInvalidLogLevel(testInstance *testing.T) {
	_, executionError := executeApplicationCommand(testInstance, "--log-level", "verbose")

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "unsupported log level")
}

func TestApplicationRootCommandDelegatesPositionalArgumentsToSync(testInstance *testing.T) {
	testInstance.Setenv("BITBUCKET_ACCESS_TOKEN", "")

	_, executionError := executeApplicationCommand(testInstance, "code.example.invalid", "PROJ", testInstance.TempDir())

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "BITBUCKET_ACCESS_TOKEN")
}

func TestApplicationRootCommandRejectsPartialArguments(testInstance *testing.T) {
	_, executionError := executeApplicationCommand(testInstance, "code.example.invalid")

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "accepts no arguments or exactly 3")
}

func TestApplicationRegistersSyncCommand(testInstance *testing.T) {
	application := NewApplication()

	syncCommand, _, lookupError := application.rootCommand.Find([]string{"sync"})
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, "sync", syncCommand.Name())
}

func TestEmbeddedDefaultConfigurationIsValidYAML(testInstance *testing.T) {
	configurationData, configurationType := EmbeddedDefaultConfiguration()

	require.Equal(testInstance, configurationTypeConstant, configurationType)
	require.Contains(testInstance, string(configurationData), "clone_link_label")
}
