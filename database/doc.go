// Package database opens GORM-backed database handles (SQLite or MySQL) with
// retrying connects, pool configuration and SQL logging through the service
// logger.
//
// A *DB satisfies container.DatabaseHandle, so bootstrap attaches it into the
// registry directly:
//
//	comp := database.NewComponent(database.Config{
//	    Name: "primary", Enabled: true, Driver: "sqlite", DSN: "app.db",
//	}, log)
//	if err := comp.Start(ctx); err != nil { ... }
//	reg.MustAttach("primary", container.Database(comp.DB()))
package database
