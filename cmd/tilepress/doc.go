// Command tilepress converts trees of scanned images into tiled pyramidal
// TIFFs. The run command discovers inputs, reconciles them against the
// output tree, and dispatches the remainder to a bounded worker pool;
// auxiliary commands manage configuration, staging scratch space, and
// environment preflight.
package main
