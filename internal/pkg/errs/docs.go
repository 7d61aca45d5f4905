// Package errs provides the error vocabulary shared by every layer of the order service.
//
// Each error kind follows the same shape:
//   - a sentinel variable (ErrObjectNotFound, ErrValueIsInvalid, ...) for errors.Is checks
//   - a struct carrying the details (parameter name, offending value, optional cause)
//   - constructors with and without a cause
//   - Error() for the message and Unwrap() returning the sentinel
//
// The transport layer maps sentinels to status codes, so new kinds must come with a sentinel.
package errs
