// Package filter is the query engine over stored production records.
//
// It lists, searches and filters records without touching the store:
//   - ListAll returns every record in the default order
//   - Future keeps productions whose end date is on or after a given day
//   - Search matches a keyword against titles, ignoring case
//   - Filter composes keyword, venue, category and date-window criteria
//   - Suggest proposes close titles when a search finds nothing
//
// The default order is start date ascending with unknown dates last, then
// title, then key. Sort offers the alternative orders used by the CLI.
//
// Example usage:
//
//	f := filter.Filter{Keyword: "hamlet", EndingFrom: production.Today()}
//	for _, rec := range f.Apply(store.All()) {
//		fmt.Println(rec.Title)
//	}
package filter
