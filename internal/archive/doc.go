// Package archive extracts the root folder of a template zip archive into a
// project directory. Only entries under the named root folder are written, and
// the folder itself is stripped from their paths.
package archive
