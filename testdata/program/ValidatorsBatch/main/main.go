//go:build statum

package main

import (
	"errors"
	"fmt"

	"github.com/eboody/statum"
)

//statum:state
type TicketState interface {
	Open()
	Assigned(string)
	Closed()
}

//statum:machine
type Ticket[TicketState any] struct {
	ID       int
	Priority int
}

//statum:validators Ticket
type Record struct {
	Assignee string
	Resolved bool
	Deleted  bool
}

func (r *Record) IsOpen() error {
	if r.Resolved || r.Assignee != "" {
		return errors.New("not open")
	}
	return nil
}

func (r *Record) IsAssigned() (string, error) {
	if r.Resolved || r.Assignee == "" {
		return "", errors.New("not assigned")
	}
	return r.Assignee, nil
}

func (r *Record) IsClosed() error {
	if !r.Resolved || r.Deleted {
		return errors.New("not closed")
	}
	return nil
}

func main() {
	records := []Record{
		{},
		{Assignee: "kim"},
		{Assignee: "lee", Resolved: true},
		{Resolved: true, Deleted: true},
	}
	for i, res := range TicketsFromRecord(records, 42, 1) {
		ticket, err := res.Get()
		if err != nil {
			fmt.Println(i, "error:", err, errors.Is(err, statum.ErrInvalidState))
			continue
		}
		fmt.Println(i, ticket.StateName(), ticket.IsAssigned())
	}

	t, _ := records[1].TryToAssigned(7, 2)
	fmt.Println(t.ID, t.Priority, t.State().Data())
}
