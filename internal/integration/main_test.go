// Package integration runs the conflict engine against repositories left in
// a conflicted merge by the real git binary.
package integration
