package catalog

import (
	"fmt"
	"strings"
)

// 2xx以外の応答
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Server Error, Status: %d", e.Status)
}

func (e *StatusError) StatusCode() int {
	return e.Status
}

// 200だが GraphQL の errors が返ってきた
type QueryError struct {
	Messages []string
}

func (e *QueryError) Error() string {
	if len(e.Messages) == 0 {
		return "graphql error"
	}
	return strings.Join(e.Messages, "; ")
}
