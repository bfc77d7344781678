/*
Package errors implements the error taxonomy of the ledger.

Every root error is registered with a unique ABCI code using
Register(code, description). Extensions declare their own root errors
in an errors.go file, for example x/token registers ErrAssetMismatch.
For reusing errors use ErrXxx.New, ErrXxx.Newf or Wrap and Wrapf.
Test for the kind of an error with ErrXxx.Is(err).

Wrap attaches a stack trace at the point of creation. Once you have an
error, you can use fmt to get more context
	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created

Message validation collects all field problems at once using
AppendField, so a client sees every invalid field in one response.
*/
package errors
