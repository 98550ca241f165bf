package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain number", `12.5`, "12.5"},
		{"integer", `1000`, "1000"},
		{"quoted number", `"42.75"`, "42.75"},
		{"quoted with commas", `"1,250.00"`, "1250"},
		{"quoted with whitespace", `" 15 "`, "15"},
		{"negative", `-3.2`, "-3.2"},
		{"null", `null`, "0"},
		{"empty string", `""`, "0"},
		{"non-numeric text", `"n/a"`, "0"},
		{"boolean", `true`, "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a Amount
			require.NoError(t, json.Unmarshal([]byte(tc.input), &a))
			assert.True(t, a.Equal(NewAmount(tc.want)),
				"got %s, want %s", a.String(), tc.want)
		})
	}
}

func TestAmountUnmarshalJSONInsideStruct(t *testing.T) {
	var payload struct {
		Rate     Amount `json:"rate"`
		Quantity Amount `json:"quantity"`
	}

	err := json.Unmarshal([]byte(`{"rate": "oops", "quantity": 3}`), &payload)
	require.NoError(t, err)

	assert.True(t, payload.Rate.IsZero())
	assert.True(t, payload.Quantity.Equal(AmountFromInt(3)))
}

func TestAmountMarshalJSON(t *testing.T) {
	out, err := json.Marshal(NewAmount("1234.5"))
	require.NoError(t, err)
	assert.Equal(t, `"1234.50"`, string(out))

	out, err = json.Marshal(ZeroAmount)
	require.NoError(t, err)
	assert.Equal(t, `"0.00"`, string(out))
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount("10.10")
	b := NewAmount("0.90")

	assert.True(t, a.Add(b).Equal(NewAmount("11.00")))
	assert.True(t, a.Sub(b).Equal(NewAmount("9.20")))
	assert.True(t, a.Mul(NewAmount("2")).Equal(NewAmount("20.20")))

	// No binary float drift on the classic case.
	assert.True(t, NewAmount("0.1").Add(NewAmount("0.2")).Equal(NewAmount("0.3")))
}
