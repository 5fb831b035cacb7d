// Package engine owns the resolution session of the merge in progress.
//
// It loads the conflicted paths from the repository into a session, hands
// the session back on every later entry within the process, and writes the
// resolved files, the index and the merge commit once every file is resolved.
package engine
