// Package fetch downloads starter template archives and keeps a local cache
// of them. Each template is cached as an archive plus a small JSON manifest
// recording the server's entity tag and the archive's root folder name. A
// fetch costs one request: when the server reports an unchanged entity tag the
// body is never read, and when the network is unreachable the cached archive
// is served instead.
package fetch
