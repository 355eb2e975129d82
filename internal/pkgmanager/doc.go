// Package pkgmanager detects an installed JavaScript package manager (yarn or
// npm), reads the dependency list of a generated project, and runs the
// package manager's install command in it. External programs are started
// through the Runner interface so callers and tests can substitute their own.
package pkgmanager
