// Package export turns widget data into downloadable artifacts.
//
// # Overview
//
// The package has two layers:
//
//   - Formatting utilities: [GenerateFileName], [ValidateData], [FormatValue]
//     and [PrepareTable]. These are pure functions shared by every encoder.
//   - Encoders: an [Encoder] produces an [Artifact] from table rows (CSV or
//     PDF) or from a renderable [Element] (PDF, PNG or JPEG).
//
// # Artifacts
//
// An [Artifact] carries the encoded bytes, a generated filename, the format
// and a content type. Artifacts are never built from empty data: validation
// runs before any encoding work starts.
//
// # Elements
//
// Graph exports rasterize an [Element]. Callers usually hold elements in a
// [Ref], which may be detached at any time; encoders re-check the element
// and fail with ELEMENT_NOT_FOUND when it is gone.
//
// # Filenames
//
// Filenames follow the pattern
//
//	<sanitized_title>_<YYYY-MM-DD>_<HH-MM-SS>.<ext>
//
// using the encoder clock in UTC.
//
// # Caching
//
// An encoder configured [WithCache] memoizes encoded bytes keyed by kind,
// format, title, layout and a digest of the data. Graph elements take part
// in caching only when they implement [Fingerprinter].
package export
