package model

import "fmt"

type NotFoundError struct{}

func (e NotFoundError) Error() string {
	return "not found"
}

type MalformedRequestError struct {
	Param string
}

func (e MalformedRequestError) Error() string {
	return "malformed request param: " + e.Param
}

// PanicError wraps a recovered panic value from a setup or teardown func.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("%v", e.Value)
}
