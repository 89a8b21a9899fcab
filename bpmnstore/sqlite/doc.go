// Package sqlite provides SQLite-backed persistence for completed bpmn
// process runs: a lightweight, serverless, file-based sink with zero
// external dependencies beyond the driver.
//
// Usage:
//
//	store, err := sqlite.New(sqlite.Options{Path: "./runs.db"})
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	err = store.Save(ctx, &bpmnstore.Run{ID: runID, ProcessID: "order-approval", Entries: entries})
package sqlite
