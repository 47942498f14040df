// Package query builds YouTrack query-language strings from typed filters.
//
// Every filter renders its clauses in a fixed order, so identical filters
// always produce identical strings. Unset fields produce no clause and an
// empty filter produces the empty string, which matches everything.
//
//	f := query.IssueFilter{
//		Project: "MYD",
//		Created: query.Range{From: "2025-07-01", To: "2025-07-31"},
//	}
//	query.Build(f) // project: MYD created: 2025-07-01 .. 2025-07-31
//
// Values that contain whitespace, a colon, the range separator or other
// reserved characters are double-quoted with embedded quotes escaped.
package query
