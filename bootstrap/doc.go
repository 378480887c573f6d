// Package bootstrap opens the databases and caches named in the config and
// attaches their handles into a container.Registry.
//
//	app, err := bootstrap.New(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.OnReady(func(ctx context.Context) error { return srv.Start(ctx) })
//	app.OnStop(srv.Stop)
//	return app.Run(ctx)
//
// A database named "primary" is attached as Database("primary") and read back
// with GetDatabase("primary") or Get("db_primary"). A cache named "sessions"
// becomes Cache("sessions"). Stop detaches only the entries this app
// attached, then closes the handles.
package bootstrap
