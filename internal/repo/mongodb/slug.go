package mongodb

import (
	"context"
	"fmt"
)

// uniqueSlug probes the base slug and then base-1, base-2, ... until taken
// reports a free one. Each candidate is checked against live data, so the
// suffix always lands on the first free number, not a guessed count.
//
// There is deliberately no lock between the probe and the insert; two
// concurrent saves racing for the same slug are settled by the unique index.
func uniqueSlug(ctx context.Context, base string, taken func(ctx context.Context, candidate string) (bool, error)) (string, error) {
	candidate := base

	for n := 1; ; n++ {
		inUse, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}

		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}
