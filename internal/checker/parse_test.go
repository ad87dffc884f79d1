//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pacwatch/pacwatch/internal/state"
)

func TestParseUpdates_SingleLine(t *testing.T) {
	t.Parallel()

	updates := ParseUpdates("pacman 6.1.0-1 -> 6.1.1-1", state.SourceOfficial)

	require.Len(t, updates, 1)
	assert.Equal(t, "pacman", updates[0].Name)
	assert.Equal(t, "6.1.0-1", updates[0].Current)
	assert.Equal(t, "6.1.1-1", updates[0].Latest)
	assert.Equal(t, state.SourceOfficial, updates[0].Source)
}

func TestParseUpdates_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		source state.Source
		want   []state.PackageUpdate
	}{
		{
			name:   "empty input",
			input:  "",
			source: state.SourceOfficial,
			want:   nil,
		},
		{
			name:   "blank lines only",
			input:  "\n   \n\t\n",
			source: state.SourceOfficial,
			want:   nil,
		},
		{
			name:   "two-token line skipped",
			input:  "pacman 6.1.0-1",
			source: state.SourceOfficial,
			want:   nil,
		},
		{
			name:   "no arrow uses last token",
			input:  "linux 6.1.0-1 6.2.0-1",
			source: state.SourceOfficial,
			want: []state.PackageUpdate{
				{Name: "linux", Current: "6.1.0-1", Latest: "6.2.0-1", Source: state.SourceOfficial},
			},
		},
		{
			name:   "order preserved and malformed lines vanish",
			input:  "pacman 1.0-1 -> 1.0-2\nbroken\nopenssl 3.1-1 -> 3.1-2\n",
			source: state.SourceOfficial,
			want: []state.PackageUpdate{
				{Name: "pacman", Current: "1.0-1", Latest: "1.0-2", Source: state.SourceOfficial},
				{Name: "openssl", Current: "3.1-1", Latest: "3.1-2", Source: state.SourceOfficial},
			},
		},
		{
			name:   "third-party source tag",
			input:  "paru-bin 2.0.3-1 -> 2.0.4-1",
			source: state.SourceAUR,
			want: []state.PackageUpdate{
				{Name: "paru-bin", Current: "2.0.3-1", Latest: "2.0.4-1", Source: state.SourceAUR},
			},
		},
		{
			name:   "extra tokens after arrow target ignored",
			input:  "linux 6.1.0-1 -> 6.2.0-1 [ignored]",
			source: state.SourceOfficial,
			want: []state.PackageUpdate{
				{Name: "linux", Current: "6.1.0-1", Latest: "6.2.0-1", Source: state.SourceOfficial},
			},
		},
		{
			name:   "trailing arrow falls back to last token",
			input:  "linux 6.1.0-1 ->",
			source: state.SourceOfficial,
			want: []state.PackageUpdate{
				{Name: "linux", Current: "6.1.0-1", Latest: "->", Source: state.SourceOfficial},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ParseUpdates(tt.input, tt.source)
			assert.Equal(t, tt.want, got)
		})
	}
}
