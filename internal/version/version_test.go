package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/undead2146/genhub-core/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{"1.0", []int{1, 0}, false},
		{"1.04", []int{1, 4}, false},
		{"v2.0.1", []int{2, 0, 1}, false},
		{"1.2.0-beta", []int{1, 2, 0}, false},
		{"1.2.0+41", []int{1, 2, 0}, false},
		{"  1.0  ", []int{1, 0}, false},
		{"7", []int{7}, false},
		{"", nil, true},
		{"abc", nil, true},
		{"1.x", nil, true},
		{"1.-2", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, domain.ErrVersionUnparseable, domain.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		v1, v2 string
		want   int
	}{
		{"1.0", "1.0", 0},
		{"1.0", "1.0.0", 0}, // missing segments compare as zero
		{"1.0", "1.04", -1},
		{"1.04", "1.0", 1},
		{"2.0", "1.9.9", 1},
		{"1.04", "1.4", 0},
		{"v1.0", "1.0", 0},
		{"1.2.0-beta", "1.2.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.v1+" vs "+tt.v2, func(t *testing.T) {
			got, err := Compare(tt.v1, tt.v2)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Compare("1.0", "junk")
	require.Error(t, err)
}

func TestSatisfiesConstraint(t *testing.T) {
	tests := []struct {
		version    string
		constraint string
		want       bool
	}{
		{"1.04", "", true},
		{"1.04", "*", true},
		{"1.04", ">=1.0", true},
		{"1.04", ">=1.04", true},
		{"1.0", ">=1.04", false},
		{"1.0", "<=1.04", true},
		{"1.05", "<=1.04", false},
		{"1.05", ">1.04", true},
		{"1.04", ">1.04", false},
		{"1.0", "<1.04", true},
		{"1.04", "<1.04", false},
		{"1.04", "=1.04", true},
		{"1.04", "1.04", true}, // bare constraint is exact match
		{"1.05", "1.04", false},
		{"1.04", " >= 1.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.version+" "+tt.constraint, func(t *testing.T) {
			got, err := SatisfiesConstraint(tt.version, tt.constraint)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := SatisfiesConstraint("junk", ">=1.0")
	require.Error(t, err)
	assert.Equal(t, domain.ErrVersionUnparseable, domain.ErrorCode(err))

	_, err = SatisfiesConstraint("1.0", ">=junk")
	require.Error(t, err)
}

func TestInWindow(t *testing.T) {
	tests := []struct {
		version  string
		min, max string
		want     bool
	}{
		{"1.04", "1.0", "2.0", true},
		{"1.0", "1.0", "2.0", true}, // bounds are inclusive
		{"2.0", "1.0", "2.0", true},
		{"0.9", "1.0", "2.0", false},
		{"2.1", "1.0", "2.0", false},
		{"0.1", "", "2.0", true}, // open lower bound
		{"9.9", "1.0", "", true}, // open upper bound
		{"5.0", "", "", true},    // fully open window
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			got, err := InWindow(tt.version, tt.min, tt.max)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := InWindow("junk", "1.0", "2.0")
	require.Error(t, err)
}
