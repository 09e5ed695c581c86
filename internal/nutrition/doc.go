// Package nutrition holds the pure calorie and macro rules: default goals, daily summaries,
// the needs estimator and parsing of meal classifier output. Nothing here touches storage
// or the clock directly.
package nutrition
