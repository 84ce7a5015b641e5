// Package timezone resolves times against the application timezone.
//
// The location comes from the APP_TIMEZONE environment variable (an
// IANA name such as "UTC" or "Asia/Jakarta") and is loaded once when
// the package is imported. Now, Format, Parse and ToAppTime all
// operate in that location, so document dates and formatted audit
// timestamps stay consistent regardless of the server's local clock.
package timezone
