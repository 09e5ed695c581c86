// Package aggregates implements the write paths that must touch several tables at once:
// goal and profile overwrite, session completion with its stats update, purchase grants
// and account deletion. Each runs in one transaction and reports errors as domain codes.
package aggregates
