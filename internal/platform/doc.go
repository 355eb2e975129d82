// Package platform hides filesystem differences between operating systems.
// On Windows, where creating symbolic links needs developer mode, links fall
// back to plain copies of their targets.
package platform
