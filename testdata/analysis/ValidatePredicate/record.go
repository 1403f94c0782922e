//go:build statum

package testdata

//statum:validators Task
type Record struct{}

func (Record) IsDraft() error { return nil }

func (Record) IsInProgress() error { return nil } // want `predicate IsInProgress must return \(int, error\) because variant InProgress carries int; got error`

func (Record) IsDone() error { return nil }
