//go:build statum

package main

import (
	"errors"
	"fmt"

	"github.com/eboody/statum"
)

//statum:state
type TaskState interface {
	Draft()
	InProgress(int)
	Done()
}

//statum:machine
type Task[TaskState any] struct {
	Name string
}

//statum:validators Task
type Row struct {
	Status  string
	Percent int
}

func (r Row) IsDraft() error {
	if r.Status != "draft" {
		return errors.New("not a draft")
	}
	return nil
}

func (r Row) IsInProgress() (int, error) {
	if r.Percent == 0 {
		return 0, errors.New("no progress")
	}
	return r.Percent, nil
}

func (r Row) IsDone(name string) error {
	if r.Status != "done" {
		return fmt.Errorf("%s is not done", name)
	}
	return nil
}

func main() {
	rows := []Row{
		{Status: "draft", Percent: 50}, // a draft before anything else
		{Status: "active", Percent: 30},
		{Status: "done"},
		{Status: "lost"},
	}
	for _, row := range rows {
		m, err := row.ToTask("t")
		if err != nil {
			fmt.Println("error:", err)
			continue
		}
		switch m := m.(type) {
		case Task[Draft]:
			fmt.Println("draft", m.Name)
		case Task[InProgress]:
			fmt.Println("in progress", m.State().Data())
		case Task[Done]:
			fmt.Println("done", m.IsDone())
		}
	}

	_, err := rows[3].TryToDone("t")
	fmt.Println(errors.Is(err, statum.ErrInvalidState), err)

	m, _ := rows[0].TryToInProgress("t")
	fmt.Println(m.StateName(), m.State().Data())
}
