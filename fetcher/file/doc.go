// Package file provides a file-backed data fetcher for configuration trees.
// The file is read once at construction time and the contents cached, so a
// single tree is built from a consistent snapshot even if the file changes
// underneath.
package file
