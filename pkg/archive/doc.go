// Package archive captures engine activity into trace documents and
// persists them through pluggable stores.
//
// A Recorder buffers track/trigger/run events straight from the engine's
// hooks; Flush combines the buffered window with a graph snapshot into a
// Trace and hands it to a Store. DiskStore keeps traces as JSON files;
// an S3 store ships behind the s3archive build tag.
//
//	rec := archive.NewRecorder(eng)
//	store, _ := archive.NewDiskStore("traces")
//	// ... run the workload ...
//	trace, _ := rec.Flush(store, "after-import")
package archive
