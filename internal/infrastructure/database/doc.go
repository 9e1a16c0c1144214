// Package database provides SQLite connectivity for Point Relay.
//
// The database holds only local operational state - the dead-letter record of
// messages that failed translation or submission. Time-series data never
// touches SQLite; it goes to the configured store.
//
// # Usage
//
//	db, err := database.Open(database.Config{
//	    Path:        "./data/pointrelay.db",
//	    WALMode:     true,
//	    BusyTimeout: 5,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
// Schema creation is owned by the consuming package (see deadletter.New),
// which keeps this package a thin connection wrapper.
package database
