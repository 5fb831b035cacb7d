// Package runtime provides the execution context for knit commands.
//
// It encapsulates shared dependencies and configuration needed by actions,
// such as the engine instance, logger, and repository root path.
package runtime
