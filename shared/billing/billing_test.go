package billing_test

import (
	"math"
	"rentkit/shared/billing"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "plain integer", input: "100", want: 100},
		{name: "decimal", input: "2.5", want: 2.5},
		{name: "empty", input: "", want: 0},
		{name: "whitespace only", input: "   ", want: 0},
		{name: "malformed", input: "abc", want: 0},
		{name: "trailing garbage", input: "10x", want: 0},
		{name: "negative accepted", input: "-5", want: -5},
		{name: "NaN literal rejected", input: "NaN", want: 0},
		{name: "Inf literal rejected", input: "Inf", want: 0},
		{name: "positive infinity rejected", input: "+Inf", want: 0},
		{name: "negative infinity rejected", input: "-Inf", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, billing.ParseAmount(tt.input))
		})
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []billing.LineItem
		want  float64
	}{
		{
			name:  "empty list",
			items: nil,
			want:  0,
		},
		{
			name: "sums hours times rate",
			items: []billing.LineItem{
				{Hours: "2", Rate: "100"},
				{Hours: "3", Rate: "50"},
			},
			want: 350,
		},
		{
			name: "malformed hours contribute zero",
			items: []billing.LineItem{
				{Hours: "abc", Rate: "50"},
			},
			want: 0,
		},
		{
			name: "malformed entry does not poison the rest",
			items: []billing.LineItem{
				{Hours: "abc", Rate: "50"},
				{Hours: "4", Rate: "25"},
			},
			want: 100,
		},
		{
			name: "decimal hours",
			items: []billing.LineItem{
				{Hours: "1.5", Rate: "200"},
			},
			want: 300,
		},
		{
			name: "NaN hours contribute zero",
			items: []billing.LineItem{
				{Hours: "NaN", Rate: "50"},
				{Hours: "2", Rate: "100"},
			},
			want: 200,
		},
		{
			name: "infinite rate contributes zero",
			items: []billing.LineItem{
				{Hours: "3", Rate: "-Inf"},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := billing.Total(tt.items)

			assert.False(t, math.IsNaN(got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaymentsTotal(t *testing.T) {
	assert.Equal(t, float64(0), billing.PaymentsTotal(nil))
	assert.Equal(t, float64(1500), billing.PaymentsTotal([]float64{500, 1000}))
}
