// Package web serves the node editor front end.
//
// The index document and static assets are embedded in the binary. When
// web.dir is set they are read from disk instead, and in debug mode a
// Watcher re-parses templates as they change.
//
// StaticHandler rejects absolute paths, ".." segments, backslashes and NUL
// bytes with 404 before touching the file system.
package web
