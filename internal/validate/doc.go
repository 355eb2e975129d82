// Package validate checks a project destination before anything is written:
// the directory name must be portable across file systems, its parent must
// exist, and an existing directory may only hold editor and VCS metadata.
package validate
