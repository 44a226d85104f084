package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/utils"
)

const testContextConfigurationFilePathConstant = "/home/user/.repo-puller/config.yaml"

func TestCommandContextAccessorRoundTripsConfigurationFilePath(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	updatedContext := accessor.WithConfigurationFilePath(context.Background(), testContextConfigurationFilePathConstant)

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(updatedContext)
	require.True(testInstance, configurationFilePathAvailable)
	require.Equal(testInstance, testContextConfigurationFilePathConstant, configurationFilePath)
}

func TestCommandContextAccessorToleratesNilParentContext(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	updatedContext := accessor.WithConfigurationFilePath(nil, testContextConfigurationFilePathConstant)

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(updatedContext)
	require.True(testInstance, configurationFilePathAvailable)
	require.Equal(testInstance, testContextConfigurationFilePathConstant, configurationFilePath)
}

func TestCommandContextAccessorReportsMissingConfigurationFilePath(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	testCases := []struct {
		name             string
		executionContext context.Context
	}{
		{name: "nil_context", executionContext: nil},
		{name: "context_without_value", executionContext: context.Background()},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(testCase.executionContext)
			require.False(testInstance, configurationFilePathAvailable)
			require.Empty(testInstance, configurationFilePath)
		})
	}
}
