// Package pathmap is the single owner of input/output path arithmetic.
//
// Every caller that needs to relate a source scan to its converted output
// goes through Mapper so key derivation stays identical on both sides of the
// join. Keys deliberately ignore the original extension and the tree root:
// an input matches a previously produced output even after an upstream
// rename from .tiff to .tif or a move between storage roots. Tightening the
// match to exact paths would change resume semantics.
package pathmap
