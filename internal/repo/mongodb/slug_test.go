package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUniqueSlugNoCollision(t *testing.T) {
	var probed []string

	slug, err := uniqueSlug(context.Background(), "go-meetup", func(ctx context.Context, candidate string) (bool, error) {
		probed = append(probed, candidate)
		return false, nil
	})

	require.NoError(t, err)
	require.Equal(t, "go-meetup", slug)
	require.Equal(t, []string{"go-meetup"}, probed, "a free base slug needs exactly one probe")
}

func TestUniqueSlugSequentialSuffixes(t *testing.T) {
	taken := map[string]bool{
		"go-meetup":   true,
		"go-meetup-1": true,
	}
	var probed []string

	slug, err := uniqueSlug(context.Background(), "go-meetup", func(ctx context.Context, candidate string) (bool, error) {
		probed = append(probed, candidate)
		return taken[candidate], nil
	})

	require.NoError(t, err)
	require.Equal(t, "go-meetup-2", slug)
	require.Equal(t, []string{"go-meetup", "go-meetup-1", "go-meetup-2"}, probed,
		"every candidate must be re-checked in order")
}

func TestUniqueSlugStopsOnProbeError(t *testing.T) {
	probeErr := errors.New("count failed")

	_, err := uniqueSlug(context.Background(), "go-meetup", func(ctx context.Context, candidate string) (bool, error) {
		return false, probeErr
	})

	require.ErrorIs(t, err, probeErr)
}
