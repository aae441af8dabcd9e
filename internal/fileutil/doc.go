// Package fileutil provides file copy helpers and the atomic placement
// protocol used to finalize conversion output.
//
// PlaceAtomic and MoveAtomic guarantee a reader of the destination tree
// never observes a partial file: content lands in a uniquely named temp file
// in the destination directory first, and the final rename is the last step.
package fileutil
