package config

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/lib/pq"
)

// Driver identifies which gorm dialector to open.
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

var ErrUnsupportedDatabase = errors.New("unsupported database url scheme")

// Database is the resolved connection target.
type Database struct {
	Driver Driver
	// DSN is a key/value Postgres DSN or a SQLite file path.
	DSN string
}

// ResolveDatabase picks the database: DATABASE_URL when set, otherwise a
// SQLite file inside the instance directory.
func (c Config) ResolveDatabase() (Database, error) {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		dir := c.InstanceDir
		if dir == "" {
			dir = DefaultInstanceDir
		}
		abs, err := filepath.Abs(filepath.Join(dir, DefaultDBFile))
		if err != nil {
			return Database{}, err
		}
		return Database{Driver: DriverSQLite, DSN: filepath.ToSlash(abs)}, nil
	}

	raw := strings.TrimSpace(c.DatabaseURL)
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return Database{}, fmt.Errorf("%w: %q", ErrUnsupportedDatabase, redact(raw))
	}

	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		_, rest, _ = strings.Cut(SanitizeDatabaseURL(raw), "://")
		dsn, err := pq.ParseURL(strings.ToLower(scheme) + "://" + rest)
		if err != nil {
			return Database{}, fmt.Errorf("parse postgres url: %w", err)
		}
		return Database{Driver: DriverPostgres, DSN: dsn}, nil
	case "sqlite", "sqlite3":
		// sqlite:///abs/path keeps the leading slash of the absolute path.
		path := rest
		if strings.HasPrefix(path, "/") && len(path) > 2 && path[2] == ':' {
			// sqlite:///C:/dir/app.db
			path = path[1:]
		}
		if path == "" {
			return Database{}, fmt.Errorf("%w: empty sqlite path", ErrUnsupportedDatabase)
		}
		return Database{Driver: DriverSQLite, DSN: path}, nil
	default:
		return Database{}, fmt.Errorf("%w: %s", ErrUnsupportedDatabase, scheme)
	}
}

// SanitizeDatabaseURL percent-escapes the user and password of a Postgres
// connection URL so that characters like 'ó' or '@' inside credentials
// survive parsing. The authority ends at the first '/', so a '/' inside a
// password must already be written as %2F. Other schemes, URLs without
// credentials, or URLs that cannot be split are returned unchanged so the
// driver reports the real problem on connect.
func SanitizeDatabaseURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok || !isPostgresScheme(scheme) {
		return raw
	}

	authority := rest
	if end := strings.IndexAny(rest, "/?#"); end >= 0 {
		authority = rest[:end]
	}
	at := strings.LastIndex(authority, "@")
	if at <= 0 {
		return raw
	}
	userinfo := rest[:at]
	tail := rest[at+1:]

	user, pass, hasPass := strings.Cut(userinfo, ":")
	user = unescape(user)
	pass = unescape(pass)

	var info *url.Userinfo
	if hasPass && pass != "" {
		info = url.UserPassword(user, pass)
	} else {
		info = url.User(user)
	}
	return scheme + "://" + info.String() + "@" + tail
}

func isPostgresScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "postgres", "postgresql":
		return true
	}
	return false
}

// unescape decodes an already percent-encoded credential so that it is not
// encoded twice; malformed escapes are kept literally.
func unescape(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}
	return s
}

func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
