package logger

import (
	"log/slog"
	"strconv"
)

const tokenPrefixLen = 10

// Error is the "error" attribute, or an empty one for a nil error, which
// slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups the non-nil errors under "errors", keyed by their position
// in the argument list.
func Errors(errs ...error) slog.Attr {
	var group []slog.Attr
	for i, err := range errs {
		if err != nil {
			group = append(group, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(group) == 0 {
		return slog.Attr{}
	}
	return Group("errors", group...)
}

func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// TokenPrefix logs the first characters of a secret token so lines can be
// correlated without exposing it.
func TokenPrefix(token string) slog.Attr {
	switch {
	case token == "":
		return slog.Attr{}
	case len(token) > tokenPrefixLen:
		return slog.String("token", token[:tokenPrefixLen]+"...")
	default:
		return slog.String("token", token)
	}
}

func SessionID(id string) slog.Attr { return nonEmpty("session_id", id) }

func UserID(id any) slog.Attr { return nonNil("user_id", id) }

func RequestID(id any) slog.Attr { return nonNil("request_id", id) }

func Component(name string) slog.Attr { return slog.String("component", name) }

func Handler(name string) slog.Attr { return slog.String("handler", name) }

// Provisioning and storage.

func Stage(name string) slog.Attr { return slog.String("stage", name) }

func Bucket(name string) slog.Attr { return slog.String("bucket", name) }

func Collection(name string) slog.Attr { return slog.String("collection", name) }

func RetryCount(n int) slog.Attr { return slog.Int("retry_count", n) }

func Duration(d any) slog.Attr { return slog.Any("duration", d) }

func nonEmpty(key, v string) slog.Attr {
	if v == "" {
		return slog.Attr{}
	}
	return slog.String(key, v)
}

func nonNil(key string, v any) slog.Attr {
	if v == nil {
		return slog.Attr{}
	}
	return slog.Any(key, v)
}
