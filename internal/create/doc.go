// Package create scaffolds a new project: it checks the destination,
// downloads the project template through the local cache, unpacks it, and
// installs the template's dependencies with yarn or npm when one is
// available.
package create
