package codec

import "fmt"

type Code int

const (
	CodeOpen Code = iota + 1
	CodeFormat
	CodeEmpty
	CodeCreate
	CodeWrite
	CodeRename
)

func (c Code) String() string {
	switch c {
	case CodeOpen:
		return "open"
	case CodeFormat:
		return "format"
	case CodeEmpty:
		return "empty"
	case CodeCreate:
		return "create"
	case CodeWrite:
		return "write"
	case CodeRename:
		return "rename"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

type DecodeError struct {
	Code    Code
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode error %d (%s): %s: %v", e.Code, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("decode error %d (%s): %s", e.Code, e.Code, e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Err }

type EncodeError struct {
	Code    Code
	Message string
	Err     error
}

func (e *EncodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("encode error %d (%s): %s: %v", e.Code, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("encode error %d (%s): %s", e.Code, e.Code, e.Message)
}

func (e *EncodeError) Unwrap() error { return e.Err }
