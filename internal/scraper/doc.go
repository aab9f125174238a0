// Package scraper provides HTTP fetching and HTML parsing for production detail pages.
//
// The scraper package fetches pages linked from the CTX Live Theatre RSS feed
// and extracts the production's run dates, weekday pattern, venue and synopsis.
// Extraction is positional against the site's page template: the first <h3>
// holds the date heading, the first <p> after it is the synopsis, and the
// <address> block holds the venue. When the heading lacks a year the whole
// page is scanned for the first dated range.
package scraper
