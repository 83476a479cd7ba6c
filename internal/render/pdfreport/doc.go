// Package pdfreport renders the full parcel monitoring report as a
// multi-page PDF. Section order is fixed: cover, methodology, executive
// summary, parcel info, one section per index, trends with embedded
// charts, recommendations, the monthly data table, the satellite gallery,
// and credits. A land-use annex is appended when a legal result is
// supplied. Every missing series, chart or thumbnail degrades to a
// labeled "Not available" block; the only errors that surface are the
// renderer's own I/O failures.
package pdfreport
