// Package log builds the slog handlers used by the debugcon command.
package log

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/muesli/termenv"

	charmlog "github.com/charmbracelet/log"
)

type (
	Format string
	Level  string
)

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
	FormatText   Format = "text"

	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrUnknownLogLevel  = errors.New("unknown log level")
	ErrUnknownLogFormat = errors.New("unknown log format")

	AllFormats = []string{
		string(FormatJSON),
		string(FormatLogfmt),
		string(FormatText),
	}
	AllLevels = []string{
		string(LevelError),
		string(LevelWarn),
		string(LevelInfo),
		string(LevelDebug),
	}
)

// CreateHandlerWithStrings creates a [slog.Handler] from a level and a
// format name.
func CreateHandlerWithStrings(w io.Writer, logLevel, logFormat string) (slog.Handler, error) {
	logLvl, err := GetLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	logFmt, err := GetFormat(logFormat)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	return CreateHandler(w, logLvl, logFmt), nil
}

// CreateHandler creates a [slog.Handler] writing to w. Source locations are
// reported only at debug level. Integer attributes whose key names a console
// attribute byte or an address (see [HexKeys]) are rendered in hexadecimal
// by the json and logfmt handlers.
func CreateHandler(w io.Writer, logLvl slog.Level, logFmt Format) slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   logLvl <= slog.LevelDebug,
		Level:       logLvl,
		ReplaceAttr: replaceHexAttr,
	}

	switch logFmt {
	case FormatJSON:
		return slog.NewJSONHandler(w, opts)

	case FormatLogfmt:
		return slog.NewTextHandler(w, opts)

	case FormatText:
		return newCharmLogHandler(w, logLvl)
	}

	return nil
}

// HexKeys lists the attribute keys whose integer values are logged in
// hexadecimal.
var HexKeys = []string{"attr", "addr"}

func replaceHexAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) != 0 || !slices.Contains(HexKeys, a.Key) {
		return a
	}

	switch a.Value.Kind() {
	case slog.KindUint64:
		return slog.String(a.Key, fmt.Sprintf("0x%X", a.Value.Uint64()))
	case slog.KindInt64:
		if v := a.Value.Int64(); v >= 0 {
			return slog.String(a.Key, fmt.Sprintf("0x%X", v))
		}
	}

	return a
}

func GetLevel(level string) (slog.Level, error) {
	switch Level(strings.ToLower(level)) {
	case LevelError:
		return slog.LevelError, nil
	case LevelWarn, "warning":
		return slog.LevelWarn, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	}

	return 0, ErrUnknownLogLevel
}

func GetFormat(format string) (Format, error) {
	logFmt := Format(strings.ToLower(format))
	if slices.Contains([]Format{FormatJSON, FormatLogfmt, FormatText}, logFmt) {
		return logFmt, nil
	}

	return "", ErrUnknownLogFormat
}

func newCharmLogHandler(w io.Writer, level slog.Level) slog.Handler {
	//nolint:gosec // G115: input from GetLevel.
	lvl := int32(level)

	logger := charmlog.NewWithOptions(w, charmlog.Options{
		Level:           charmlog.Level(lvl),
		Formatter:       charmlog.TextFormatter,
		ReportTimestamp: true,
		ReportCaller:    level <= slog.LevelDebug,
		TimeFormat:      time.StampMilli,
		Prefix:          "debugcon",
	})
	logger.SetColorProfile(termenv.ColorProfile())

	return logger
}
