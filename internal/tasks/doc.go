// Package tasks moves rating history in and out of a streaming account profile.
//
// # Pipeline
//
// [Pipeline.Run] walks a fixed state machine:
//
//	start → authenticated → profile_resolved → profile_active → done
//
// Any stage failure moves it to failed instead. The first error stops the pipeline, is handed once to the
// injected [Reporter] and is returned as is. Later stages never run.
//
// The last stage is chosen by [RunOptions.Export]:
//   - [RatingExporter] : fetch every rating and write one JSON document to a file or standard output
//   - [RatingImporter] : read a JSON document and call SetVideoRating once per entry
//
// # Sequential Execution
//
// [Waterfall] runs a list of [Task] values strictly one after another. Imports go through a paced
// Waterfall so the account API sees at most one rating write per interval; the pipeline stages go
// through an unpaced one.
//
// Failure policy:
//   - [StopOnError] : return the first error, skip the rest (default)
//   - [ContinueOnError] : run everything, then return the first error
//
// # Progress Reporting
//
// Stages and rating writes emit [ProgressUpdate] values on an optional channel. Sends never block; a full
// channel drops the update.
//
// # Run Recording
//
// The optional [RunRecorder] (repositories.RunRepository) stores one row per pipeline run. Its errors
// are ignored.
package tasks
