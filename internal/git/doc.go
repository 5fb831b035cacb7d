// Package git is the repository backend.
//
// Merge state, index stages, objects and working tree files are read and
// written through go-git. Starting a merge is the one operation that shells
// out to the git binary (see CommandRunner).
package git
