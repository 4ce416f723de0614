package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/google/go-cmp/cmp"
)

func TestOverwriteApprover(t *testing.T) {
	driver := &Scripted{Confirms: []bool{false, true}}
	approve := OverwriteApprover(driver)

	ok, err := approve(context.Background(), "out/jvm.json", []string{"only in first: a", "Values differ: 1 vs 2"})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if ok {
		t.Fatalf("expected first answer to decline")
	}
	want := []string{"Differences for out/jvm.json:\nonly in first: a\nValues differ: 1 vs 2"}
	if diff := cmp.Diff(want, driver.Infos); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}

	ok, err = approve(context.Background(), "out/kafka.json", nil)
	if err != nil || !ok {
		t.Fatalf("expected approval, got %v %v", ok, err)
	}
	if len(driver.Infos) != 1 {
		t.Fatalf("expected no info for a file without differences")
	}
}

func TestScriptedInputDefaultsAndValidation(t *testing.T) {
	driver := &Scripted{Inputs: []string{"", "bad"}}
	got, err := driver.Input(context.Background(), InputConfig{Default: "jvm"})
	if err != nil || got != "jvm" {
		t.Fatalf("expected default answer, got %q %v", got, err)
	}

	_, err = driver.Input(context.Background(), InputConfig{Validator: func(s string) error {
		return errors.New("invalid " + s)
	}})
	if err == nil || err.Error() != "invalid bad" {
		t.Fatalf("expected validator error, got %v", err)
	}

	if _, err := driver.Input(context.Background(), InputConfig{}); err == nil {
		t.Fatalf("expected error once script is exhausted")
	}
}

func TestScriptedSelect(t *testing.T) {
	driver := &Scripted{Selects: []int{1, 5}}
	idx, err := driver.Select(context.Background(), SelectConfig{Options: []string{"a", "b"}})
	if err != nil || idx != 1 {
		t.Fatalf("unexpected select %d %v", idx, err)
	}
	if _, err := driver.Select(context.Background(), SelectConfig{Options: []string{"a", "b"}}); err == nil {
		t.Fatalf("expected out of range error")
	}
}

func TestTranslateSurveyErr(t *testing.T) {
	if !errors.Is(translateSurveyErr(terminal.InterruptErr), ErrAborted) {
		t.Fatalf("expected interrupt to map to ErrAborted")
	}
	other := errors.New("boom")
	if translateSurveyErr(other) != other {
		t.Fatalf("expected other errors to pass through")
	}
}

func TestIndexOf(t *testing.T) {
	if indexOf([]string{"a", "b"}, "b") != 1 || indexOf([]string{"a"}, "z") != -1 {
		t.Fatalf("indexOf mismatch")
	}
}

func TestSurveyDriverHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := NewSurvey()
	if _, err := d.Input(ctx, InputConfig{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
	if _, err := d.Confirm(ctx, ConfirmConfig{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got %v", err)
	}
}
