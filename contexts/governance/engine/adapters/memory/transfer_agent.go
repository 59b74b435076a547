package memory

import (
	"context"
	"errors"
	"sync"
)

// TransferRecord is one custody movement observed by the in-memory agent.
type TransferRecord struct {
	Actor  string
	Amount int64
}

// TransferAgent is the test double for the environment's custodial transfer
// primitive. It records every draw and payout and can be told to refuse, so
// tests can assert the engine aborts atomically on transfer failure.
type TransferAgent struct {
	mu        sync.Mutex
	draws     []TransferRecord
	transfers []TransferRecord

	// FailNext makes exactly one upcoming call fail; Fail makes all of them.
	FailNext bool
	Fail     bool
}

var errTransferRefused = errors.New("custody transfer refused")

func NewTransferAgent() *TransferAgent {
	return &TransferAgent{}
}

func (a *TransferAgent) Draw(_ context.Context, from string, amount int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.refuse() {
		return errTransferRefused
	}
	a.draws = append(a.draws, TransferRecord{Actor: from, Amount: amount})
	return nil
}

func (a *TransferAgent) Transfer(_ context.Context, to string, amount int64) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.refuse() {
		return errTransferRefused
	}
	a.transfers = append(a.transfers, TransferRecord{Actor: to, Amount: amount})
	return nil
}

func (a *TransferAgent) refuse() bool {
	if a.Fail {
		return true
	}
	if a.FailNext {
		a.FailNext = false
		return true
	}
	return false
}

// Draws returns a copy of recorded custody draws.
func (a *TransferAgent) Draws() []TransferRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]TransferRecord(nil), a.draws...)
}

// Transfers returns a copy of recorded payouts.
func (a *TransferAgent) Transfers() []TransferRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]TransferRecord(nil), a.transfers...)
}
