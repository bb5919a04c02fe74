package recurrence

import (
	"fmt"

	"github.com/on-the-ground/memo_ive_go/effects"
)

var ErrUnknownRecurrence = fmt.Errorf("unknown recurrence")

// Payload is sealed: only the payloads of this package are accepted.
type Payload interface {
	PartitionKey() string
	sealed()
}

// Evaluate asks for the value of the named recurrence at Index.
type Evaluate struct {
	Name  string
	Index int
}

func (p Evaluate) PartitionKey() string { return p.Name }
func (Evaluate) sealed()                {}

// Describe asks for the cache state of the named recurrence.
type Describe struct {
	Name string
}

func (p Describe) PartitionKey() string { return p.Name }
func (Describe) sealed()                {}

// Source asks for the channel evaluation events are published on.
type Source struct{}

func (Source) PartitionKey() string { return "" }
func (Source) sealed()              {}

// Description is the answer to Describe.
type Description struct {
	Name     string
	ID       string
	Frontier int
	Indices  []int
}

// Len is the number of cached indices.
func (d Description) Len() int { return len(d.Indices) }

var _ effects.TimeBounded = TimeBoundedEvent{}

// TimeBoundedEvent reports one successful evaluation.
type TimeBoundedEvent struct {
	Name   string
	Index  int
	Cached bool
	Span   effects.TimeSpan
}

func (e TimeBoundedEvent) TimeSpan() effects.TimeSpan { return e.Span }
