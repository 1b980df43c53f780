package utils

import (
	"testing"

	model "github.com/lucianoMintrone/no-name-running-club-sub000/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatChallengeTitle(t *testing.T) {
	tests := []struct {
		name      string
		challenge model.Challenge
		want      string
	}{
		{
			name:      "winter spanning two years",
			challenge: model.Challenge{Season: "winter", Year: "2025/2026"},
			want:      "Winter 2025/2026 Challenge",
		},
		{
			name:      "summer single year",
			challenge: model.Challenge{Season: "summer", Year: "2025"},
			want:      "Summer 2025 Challenge",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatChallengeTitle(tt.challenge))
		})
	}
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Alice", FirstName("Alice Martin"))
	assert.Equal(t, "Bob", FirstName("Bob"))
	assert.Equal(t, "Carol", FirstName("  Carol Anne Smith "))
	assert.Equal(t, "", FirstName(""))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exactly", Truncate("exactly", 7))
	assert.Equal(t, "abc...", Truncate("abcdefghij", 6))
}
