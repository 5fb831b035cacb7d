// Package tui provides terminal output and interaction for knit.
//
// It handles:
//   - Structured logging to the console and a rotating log file (Splog)
//   - Interactive prompts and the external editor
//   - Colors and terminal detection
//
// The conflict view itself lives in components/resolver.
package tui
