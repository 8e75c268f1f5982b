// Package logger builds slog loggers with the handful of knobs sessionkit
// needs: format, level, destination and static attributes.
//
//	log := logger.New(
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithAttrs(slog.String("service", "auth")),
//	)
//
//	manager := session.New(
//	    session.WithCookieManager(cookies),
//	    session.WithLogger(log),
//	)
//
// The session manager logs fingerprint drift advisories through the injected
// logger when the strict flags are off; without one those advisories are
// discarded.
package logger
