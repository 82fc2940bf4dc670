package chips

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Chips
		wantErr bool
	}{
		{in: "1", want: 100},
		{in: "0.5", want: 50},
		{in: "2.5", want: 250},
		{in: "13.5", want: 1350},
		{in: "0.01", want: 1},
		{in: "0.001", wantErr: true},
		{in: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "4.5", Chips(450).String())
	assert.Equal(t, "100", BB(100).String())
	assert.Equal(t, "0", Chips(0).String())
	assert.Equal(t, "0.05", Chips(5).String())
}

func TestFromFloat(t *testing.T) {
	t.Parallel()

	c, err := FromFloat(0.5)
	require.NoError(t, err)
	assert.Equal(t, Chips(50), c)

	_, err = FromFloat(0.125)
	require.Error(t, err)
}

func TestScaleRoundsDown(t *testing.T) {
	t.Parallel()

	// two thirds of 1 BB is 66.66 units
	got := BB(1).Scale(decimal.NewFromInt(2).Div(decimal.NewFromInt(3)))
	assert.Equal(t, Chips(66), got)
	assert.Equal(t, Chips(150), BB(1).Scale(decimal.RequireFromString("1.5")))
}

func TestTextRoundTrip(t *testing.T) {
	t.Parallel()

	text, err := Chips(1250).MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "12.5", string(text))

	var c Chips
	require.NoError(t, c.UnmarshalText([]byte("0.75")))
	assert.Equal(t, Chips(75), c)
	assert.Error(t, c.UnmarshalText([]byte("lots")))
}
