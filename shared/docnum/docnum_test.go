package docnum_test

import (
	"rentkit/shared/docnum"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestFiscalYear(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		wantStart int
		wantEnd   int
	}{
		{
			name:      "january belongs to prior fiscal year",
			ref:       date(2025, time.January, 15),
			wantStart: 2024,
			wantEnd:   2025,
		},
		{
			name:      "march 31 is the last day of the fiscal year",
			ref:       date(2025, time.March, 31),
			wantStart: 2024,
			wantEnd:   2025,
		},
		{
			name:      "april 1 rolls the fiscal year forward",
			ref:       date(2025, time.April, 1),
			wantStart: 2025,
			wantEnd:   2026,
		},
		{
			name:      "december stays in the current fiscal year",
			ref:       date(2024, time.December, 15),
			wantStart: 2024,
			wantEnd:   2025,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := docnum.FiscalYear(tt.ref)

			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		suffix   string
		sequence string
		ref      time.Time
		want     string
	}{
		{
			name:     "all tokens substituted",
			prefix:   "INV/{{xxxx}}-{{yy}}/{{mm}}/",
			suffix:   "/{{mmm}}",
			sequence: "007",
			ref:      date(2025, time.June, 10),
			want:     "INV/2025-26/06/007/Jun",
		},
		{
			name:     "empty prefix and suffix",
			prefix:   "",
			suffix:   "",
			sequence: "042",
			ref:      date(2025, time.June, 10),
			want:     "042",
		},
		{
			name:     "repeated token substituted everywhere",
			prefix:   "{{xx}}-{{xx}}/",
			suffix:   "/{{xx}}",
			sequence: "001",
			ref:      date(2025, time.July, 1),
			want:     "25-25/001/25",
		},
		{
			name:     "sequence concatenated verbatim",
			prefix:   "Q-",
			suffix:   "",
			sequence: "not-a-number",
			ref:      date(2025, time.July, 1),
			want:     "Q-not-a-number",
		},
		{
			name:     "two-digit fiscal years around a century",
			prefix:   "{{xx}}/{{yy}}-",
			suffix:   "",
			sequence: "001",
			ref:      date(2099, time.December, 5),
			want:     "99/00-001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := docnum.Format(tt.prefix, tt.suffix, tt.sequence, tt.ref)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatDeterministic(t *testing.T) {
	ref := date(2025, time.August, 20)

	first := docnum.Format("INV/{{xxxx}}/", "/{{mm}}", "015", ref)

	for range 10 {
		assert.Equal(t, first, docnum.Format("INV/{{xxxx}}/", "/{{mm}}", "015", ref))
	}
}

func TestFormatFiscalBoundary(t *testing.T) {
	// December and the following January share a fiscal year.
	december := docnum.Format("{{xxxx}}", "", "", date(2024, time.December, 15))
	january := docnum.Format("{{xxxx}}", "", "", date(2025, time.January, 15))
	assert.Equal(t, december, january)

	// March 31 and April 1 of the same calendar year do not.
	march := docnum.Format("{{xxxx}}", "", "", date(2025, time.March, 31))
	april := docnum.Format("{{xxxx}}", "", "", date(2025, time.April, 1))
	assert.Equal(t, "2024", march)
	assert.Equal(t, "2025", april)
}

func TestNextSequence(t *testing.T) {
	tests := []struct {
		name string
		last string
		want string
	}{
		{name: "no prior sequence", last: "", want: "001"},
		{name: "increments and keeps padding", last: "007", want: "008"},
		{name: "unparseable restarts", last: "abc", want: "001"},
		{name: "negative restarts", last: "-3", want: "001"},
		{name: "grows past the padding width", last: "999", want: "1000"},
		{name: "whitespace tolerated", last: " 41 ", want: "042"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, docnum.NextSequence(tt.last))
		})
	}
}
