// Package utils reads commit messages from files and standard input.
package utils
