package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
)

// SheetStore publishes the active rate sheet to concurrent evaluations.
// Reloads swap a fully-built sheet in one atomic store; an evaluation that
// already grabbed a snapshot keeps pricing against it.
type SheetStore struct {
	active atomic.Pointer[RateSheet]
}

// NewSheetStore returns a store seeded with the compiled-in sheet.
func NewSheetStore() *SheetStore {
	s := &SheetStore{}
	s.active.Store(builtinSheet)
	return s
}

// Current returns the active sheet snapshot.
func (s *SheetStore) Current() *RateSheet {
	return s.active.Load()
}

// Publish validates and atomically installs a new sheet.
func (s *SheetStore) Publish(sheet *RateSheet) error {
	if err := sheet.Validate(); err != nil {
		return err
	}
	s.active.Store(sheet)
	return nil
}

// LoadFile parses a sheet file and publishes it. The previous sheet stays
// active when parsing or validation fails.
func (s *SheetStore) LoadFile(path string) (*RateSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rate sheet: %w", err)
	}
	sheet := &RateSheet{}
	if err := json.Unmarshal(data, sheet); err != nil {
		return nil, fmt.Errorf("failed to parse rate sheet: %w", err)
	}
	if err := s.Publish(sheet); err != nil {
		return nil, err
	}
	return sheet, nil
}
