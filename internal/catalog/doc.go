// Package catalog is the pipeline's read model: a SQLite database holding
// parcels and their monthly index records. The host application writes it;
// the pipeline only reads, through FetchSeries. Insert helpers exist for
// ingestion tooling and tests.
package catalog
