package prompt

import (
	"context"
	"errors"
	"sync"
)

// Scripted replays canned answers in order. It is used by tests and by
// non-interactive runs that need to answer prompts up front.
type Scripted struct {
	mu       sync.Mutex
	Inputs   []string
	Confirms []bool
	Selects  []int
	Infos    []string
}

var _ Driver = (*Scripted)(nil)

func (s *Scripted) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Inputs) == 0 {
		return "", errors.New("prompt: no input scripted")
	}
	val := s.Inputs[0]
	s.Inputs = s.Inputs[1:]
	if val == "" {
		val = cfg.Default
	}
	if cfg.Validator != nil {
		if err := cfg.Validator(val); err != nil {
			return "", err
		}
	}
	return val, nil
}

func (s *Scripted) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Confirms) == 0 {
		return false, errors.New("prompt: no confirm scripted")
	}
	val := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return val, nil
}

func (s *Scripted) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Selects) == 0 {
		return -1, errors.New("prompt: no select scripted")
	}
	val := s.Selects[0]
	s.Selects = s.Selects[1:]
	if val < 0 || val >= len(cfg.Options) {
		return -1, errors.New("prompt: scripted selection out of range")
	}
	return val, nil
}

func (s *Scripted) Info(_ context.Context, msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Infos = append(s.Infos, msg)
	return nil
}
