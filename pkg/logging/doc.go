// Package logging builds the log/slog loggers used across oasmock.
//
// New returns a logger writing text or JSON to Config.Output. Open does the
// same and also tees every record, as JSON, into Config.File:
//
//	log, closer, err := logging.Open(logging.Config{
//	    Level:  logging.LevelDebug,
//	    Format: logging.FormatText,
//	    File:   "oasmock.log",
//	})
//	if err != nil {
//	    return err
//	}
//	defer closer.Close()
//
//	log.Info("server started", "listen", ":4010")
//
// Components take a *slog.Logger through an option or setter and fall back to
// Nop. Component tags a logger with the emitting component, e.g. "mocker".
package logging
