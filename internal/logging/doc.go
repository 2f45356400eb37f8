// Package logging configures named logging instances that write every record
// to two sinks: a file under the log directory (logging/logs/<name>.log by
// default) and the console.
//
// Instances live in a Registry owned by the application. The registry holds
// the default debug mode, which decides the threshold of instances set up
// without an explicit override:
//
//	reg := logging.NewRegistry(logging.Options{})
//	reg.SetDebugMode(true)
//	log, err := reg.Setup("train")
//	if err != nil {
//	    return err
//	}
//	logging.Debug(log, "loaded 128 samples")
//
// The package also reads the files it writes back (see Viewer).
package logging
