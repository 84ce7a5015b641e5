// Package docnum builds formatted document numbers (quotation and
// invoice numbers) from owner-configured prefix/suffix templates and a
// running sequence.
package docnum

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Template tokens substituted literally wherever they occur in a
// prefix or suffix, including repeated occurrences.
const (
	TokenMonth           = "{{mm}}"   // two-digit calendar month
	TokenMonthName       = "{{mmm}}"  // short month name (Jan, Feb, ...)
	TokenFiscalStartYY   = "{{xx}}"   // two-digit fiscal-start year
	TokenFiscalStartYYYY = "{{xxxx}}" // four-digit fiscal-start year
	TokenFiscalEndYY     = "{{yy}}"   // two-digit fiscal-end year
	TokenFiscalEndYYYY   = "{{yyyy}}" // four-digit fiscal-end year
)

const (
	sequenceWidth = 3
	firstSequence = "001"
)

// FiscalYear returns the Indian fiscal year (April through March)
// containing ref: January to March belong to the year that started the
// previous April.
func FiscalYear(ref time.Time) (start, end int) {
	start = ref.Year()
	if ref.Month() < time.April {
		start--
	}

	return start, start + 1
}

// Format substitutes the template tokens in prefix and suffix against
// ref and concatenates prefix + sequence + suffix. The sequence passes
// through verbatim; callers zero-pad it (see NextSequence). Pure and
// deterministic.
func Format(prefix, suffix, sequence string, ref time.Time) string {
	return substitute(prefix, ref) + sequence + substitute(suffix, ref)
}

func substitute(template string, ref time.Time) string {
	if template == "" {
		return ""
	}

	fiscalStart, fiscalEnd := FiscalYear(ref)

	replacer := strings.NewReplacer(
		TokenMonth, fmt.Sprintf("%02d", int(ref.Month())),
		TokenMonthName, ref.Month().String()[:3],
		TokenFiscalStartYY, fmt.Sprintf("%02d", fiscalStart%100),
		TokenFiscalStartYYYY, strconv.Itoa(fiscalStart),
		TokenFiscalEndYY, fmt.Sprintf("%02d", fiscalEnd%100),
		TokenFiscalEndYYYY, strconv.Itoa(fiscalEnd),
	)

	return replacer.Replace(template)
}

// NextSequence returns the sequence following last, zero-padded to
// three digits. A missing or non-numeric last sequence is treated as
// absent and restarts the counter at "001"; it is never an error.
func NextSequence(last string) string {
	n, err := strconv.Atoi(strings.TrimSpace(last))
	if err != nil || n < 0 {
		return firstSequence
	}

	return fmt.Sprintf("%0*d", sequenceWidth, n+1)
}
