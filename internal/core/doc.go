// Package core persists resumes, job listings and job applications.
//
// Each entity has a controller that owns its statements, maps cursor rows
// to model values, groups multi-table writes into one transaction and
// renders the table as JSON or CSV. All three share one [db.Handle]
// injected at construction; nothing here is safe for concurrent use.
// Callers that share a service across goroutines take the [Gate] first.
//
// # Controllers
//
//   - [JobApplicationController]: keyed by application id, owns the
//     interview_dates and followup_dates child tables.
//   - [JobListingController]: keyed by job id, with a numeric id assigned on
//     insert that keys the skill tables.
//   - [ResumeController]: keyed by numeric id, with a unique email.
//
// [Service] wires the three to a handle and registers them in a
// [Registry] under "applications", "listings" and "resumes".
//
// # Writes
//
// Create checks the natural key first and fails with [ErrAlreadyExists]
// without touching the store. Otherwise the parent row and one row per
// child item are written between BEGIN and COMMIT; the first failure rolls
// everything back. Update requires the key ([ErrNotFound] otherwise) and
// replaces every child collection wholesale. Delete removes children then
// the parent and succeeds for keys that do not exist.
//
// # Reads
//
// Lookups return [ErrNotFound] when no row matches. Lists are built with
// squirrel; free-text filters are case-insensitive substring matches.
// Counts return 0 together with the error on failure.
//
// # Export
//
// JSON is written by hand with two-space indentation, one named array per
// document. [EscapeJSON] turns backslashes into forward slashes, so a
// literal backslash does not round-trip. CSV quotes only fields that need
// it ([EscapeCSV]) and joins child lists with ";".
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each category has a code for support reference:
//
//   - DB001-DB008: Database errors (duplicates, constraints, connections)
//   - REC001-REC003: Record errors (exists, not found, not implemented)
//   - VAL001-VAL004: Validation errors (dates, numbers, keys, values)
package core
