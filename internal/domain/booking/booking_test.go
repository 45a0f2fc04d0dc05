package booking

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "lowercased", in: "Jane.Doe@Example.COM", want: "jane.doe@example.com"},
		{name: "trimmed", in: "  jane@example.com \n", want: "jane@example.com"},
		{name: "already normal", in: "jane@example.com", want: "jane@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NormalizeEmail(tt.in))
		})
	}
}

func TestValidEmail(t *testing.T) {
	valid := []string{
		"jane@example.com",
		"jane.doe+rsvp@sub.example.co",
		"x@y.io",
	}
	for _, email := range valid {
		require.True(t, ValidEmail(email), "expected %q to be accepted", email)
	}

	invalid := []string{
		"",
		"jane",
		"jane@example",
		"@example.com",
		"jane@.com",
		"jane doe@example.com",
		"jane@exa mple.com",
	}
	for _, email := range invalid {
		require.False(t, ValidEmail(email), "expected %q to be rejected", email)
	}
}

func TestNewFromCreateRequest(t *testing.T) {
	b := NewFromCreateRequest(CreateBookingRequest{
		EventID: "66a2b1c0a6f3e21d9c000001",
		Email:   "  Jane.Doe@Example.COM ",
	})

	require.Equal(t, "jane.doe@example.com", b.Email)
	require.True(t, b.EventID.IsZero(), "event reference resolved by the save pipeline")
	require.True(t, b.ID.IsZero())
	require.False(t, b.CreatedAt.IsZero())
	require.Equal(t, b.CreatedAt, b.UpdatedAt)
}
