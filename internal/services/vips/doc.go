// Package vips wraps the libvips command-line tool used to produce tiled
// pyramidal TIFF output.
//
// The converter is treated as an opaque collaborator: tilepress hands it a
// (source, destination) pair with a fixed option set and interprets any
// non-zero exit as failure. A failed invocation never leaves a usable file
// at the destination; the client removes partial artifacts itself.
package vips
