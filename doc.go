// Package dimreport answers fixed reporting questions over three CSV
// extracts: a customer dimension, a product dimension and a sales fact table.
//
// Usage:
//
//	dimreport customers total-by-location --location "Los Angeles"
//	dimreport products quarterly-sales --quarters 1,2 --format csv
//	dimreport sales return-rate-top-customers --format json
//
// The dataset package loads and coerces the files, query computes each
// report, engine holds the shared grouping, filtering, sorting and paging
// primitives, and render prints results as a table, CSV or JSON. Everything
// runs locally against files in the data directory.
package dimreport
