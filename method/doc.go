// Package method memoizes methods per receiver.
//
// A Binding associates each receiver with its own memoized handle, created
// lazily on the receiver's first call, so receivers never share cached
// results. Bind takes the method as a method expression; BindName resolves it
// reflectively by name and fails with ErrNotCallable if the named member does
// not exist or is not a method of the expected signature.
package method
