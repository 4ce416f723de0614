package prompt

import (
	"context"
	"fmt"
	"strings"
)

// OverwriteApprover returns a generator approver that shows the differences
// for a file and asks whether to overwrite it.
func OverwriteApprover(d Driver) func(ctx context.Context, path string, differences []string) (bool, error) {
	return func(ctx context.Context, path string, differences []string) (bool, error) {
		if len(differences) > 0 {
			msg := fmt.Sprintf("Differences for %s:\n%s", path, strings.Join(differences, "\n"))
			if err := d.Info(ctx, msg); err != nil {
				return false, err
			}
		}
		return d.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Overwrite %s?", path),
			Default: true,
		})
	}
}
