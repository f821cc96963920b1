// Package fsops provides the filesystem tool set: file and directory CRUD,
// filename search, file metadata, and JSON formatting helpers.
//
// Every tool resolves its paths through a pathsafe.Resolver injected at
// construction, so a sandbox root configured at startup is enforced on all
// operations rather than being an advisory convention at each call site.
package fsops
