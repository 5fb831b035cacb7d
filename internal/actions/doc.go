// Package actions provides high-level business logic for CLI commands.
//
// Each action corresponds to a knit command (resolve, merge, take, commit,
// abort, status) and orchestrates the engine, the git runner and the
// conflict view.
//
// Key patterns:
//   - Actions accept runtime.Context which provides Engine, Splog, and other dependencies
//   - Actions are stateless - the resolution session lives in the Engine
//   - Actions handle user interaction through the tui package
package actions
