// Package model defines the core data types for instruction-manual page
// classification: bounding-box geometry, the primitive block variants
// supplied by the document parser (text runs, vector drawings, raster
// images), and the structured element variants the classifier produces
// (page numbers, steps, parts lists, and so on).
package model
