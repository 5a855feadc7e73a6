// Package sheets fetches Google Sheets ranges and exposes them as ragged rows
// with total accessors.
//
// A fetch requests only formatted values and hyperlinks. Each requested range
// becomes a Block of its Sheet; rows and cells past the end read as empty.
//
//	ss, err := client.Fetch(ctx, id, []string{"Dashboard!A2:AC508"})
//	sheet, _ := ss.Sheet("Dashboard")
//	for _, row := range sheet.Block(0).Rows {
//	    name := row.Value(1, "")
//	}
package sheets
