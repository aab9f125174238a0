// Package production provides the record type for theatre productions.
//
// A Record is one production keyed by a stable slug. Scraped records take their
// key from the last path segment of the detail-page URL; manual records get a
// slug generated from their title. Dates are calendar dates without a time
// zone and serialize as ISO 8601 strings ("2026-01-16"), or "" when unknown.
package production
