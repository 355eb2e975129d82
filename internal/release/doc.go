// Package release looks up the newest published release of the tool on
// GitHub and compares it with the running version.
package release
