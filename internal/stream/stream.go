// Package stream implements the compression/passthrough stream plugins
// used when writing an archive to disk: a Stream wraps the destination
// file, optionally piping writes through an external compressor process.
package stream

import "io"

// Stream is an open, named output (or input) for an archive. Name
// reports the path the stream was opened against, which may differ from
// the caller's requested path when a plugin appends its own extension
// (e.g. ".gz").
type Stream interface {
	io.WriteCloser
	Name() string
}

// Plugin opens Streams for a given compression method. Mode is an
// fopen-style string: "wb" for writing, "rb" for reading.
type Plugin interface {
	Open(path string, mode string) (Stream, error)
	// Ext is the filename suffix this plugin's compressed output takes,
	// e.g. ".gz"; the none/passthrough plugin returns "".
	Ext() string
}

const Namespace = "holland.stream"
