package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/aretw0/policytree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloat_JSON(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0.5, want: `0.5`},
		{in: 0, want: `0`},
		{in: math.NaN(), want: `"NaN"`},
		{in: math.Inf(1), want: `"+Inf"`},
		{in: math.Inf(-1), want: `"-Inf"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			data, err := json.Marshal(domain.Float(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))

			var back domain.Float
			require.NoError(t, json.Unmarshal(data, &back))
			if math.IsNaN(tt.in) {
				assert.True(t, math.IsNaN(float64(back)))
			} else {
				assert.Equal(t, tt.in, float64(back))
			}
		})
	}
}

func TestFloat_UnmarshalRejectsOtherStrings(t *testing.T) {
	var f domain.Float
	assert.Error(t, json.Unmarshal([]byte(`"half"`), &f))
	require.NoError(t, json.Unmarshal([]byte(`"Inf"`), &f))
	assert.True(t, math.IsInf(float64(f), 1))
}

func TestReward_JSONNonFinite(t *testing.T) {
	data, err := json.Marshal(domain.Summary{Reward: domain.Reward(math.Inf(-1))})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"-Inf"`)

	var r domain.Reward
	require.NoError(t, json.Unmarshal([]byte(`"NaN"`), &r))
	assert.True(t, math.IsNaN(float64(r)))
}

func TestRecord_JSONNonFiniteSplit(t *testing.T) {
	table := domain.ToTable(domain.NewBranch(domain.NewLeaf(1, 0), domain.NewLeaf(2, 1), 0, math.NaN()))

	data, err := json.Marshal(table)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"split_value":"NaN"`)

	var decoded domain.Table
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 3)
	assert.True(t, math.IsNaN(decoded[0].SplitValue))
	assert.Equal(t, 2, decoded[0].LeftChild)
	assert.True(t, decoded[1].IsLeaf)
}
