// Package services defines the shared error taxonomy consumed by the
// conversion strategies and the workflow runner.
//
// Errors are tagged with sentinel markers so callers can classify a failure
// without string matching: configuration and discovery failures abort the run,
// everything else stays local to the item that produced it. Use Wrap when
// returning errors from component code so the stage and operation context
// travels with the message.
package services
