package todo

import "fmt"

// DataLoadError reports a data file that could not be read, parsed or validated.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("load todo data %s: %s", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// InvalidParameterError reports a query parameter whose value cannot be used.
type InvalidParameterError struct {
	Param string
	Value string
	Err   error
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("Specified %s '%s' can't be parsed to a non-negative integer", e.Param, e.Value)
}

// Unwrap returns the underlying error.
func (e *InvalidParameterError) Unwrap() error {
	return e.Err
}
