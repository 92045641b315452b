// Package errors provides the classified error type used across ghrefs.
//
// Errors carry a category (config, validation, filesystem, git, internal), a
// severity, a retry hint and a small context map. They are built with a fluent
// builder:
//
//	err := errors.ConfigError("no repository could be determined").
//		WithContext("input", raw).
//		Build()
//
// CLIErrorAdapter turns them into exit codes and user-facing messages.
package errors
