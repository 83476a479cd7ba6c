// Package temporal produces the trend report for one index series: an
// ordinary-least-squares linear fit, seasonality by calendar month, cycle
// peaks and valleys, anomaly detection, inter-annual comparison, and a
// one-step projection. Like the index analyzers it is a pure function of
// the series and never fails; short series degrade to an
// insufficient-data report.
package temporal
