// Package utils exposes reusable helpers consumed by the CLI.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging, alongside small
// IO helpers shared across commands.
package utils
