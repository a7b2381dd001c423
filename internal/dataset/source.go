package dataset

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Source schemes understood by the loader.
const (
	SchemeFile     = "file"
	SchemeHTTP     = "http"
	SchemeHTTPS    = "https"
	SchemeS3       = "s3"
	SchemeSQLite   = "sqlite"
	SchemePostgres = "postgres"
)

const defaultTable = "launches"

var tablePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Source is a parsed dataset location.
type Source struct {
	Scheme string
	// Location is the file path, URL, database path or DSN handed to the backend.
	Location string
	Bucket   string
	Key      string
	Table    string

	display string
}

// String returns the source with any password redacted.
func (s Source) String() string { return s.display }

// Remote reports whether the source is fetched over the network as CSV bytes.
func (s Source) Remote() bool {
	switch s.Scheme {
	case SchemeHTTP, SchemeHTTPS, SchemeS3:
		return true
	}
	return false
}

// ParseSource interprets raw as a bare path or a URI with one of the supported
// schemes. A table query parameter on database URIs overrides table.
func ParseSource(raw, table string) (Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Source{}, errors.New("dataset source is empty")
	}
	if table == "" {
		table = defaultTable
	}
	if !strings.Contains(raw, "://") {
		return Source{Scheme: SchemeFile, Location: raw, display: raw}, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Source{}, fmt.Errorf("parse dataset source: %w", err)
	}
	src := Source{Scheme: strings.ToLower(u.Scheme), display: u.Redacted()}

	switch src.Scheme {
	case SchemeFile:
		src.Location = u.Host + u.Path
		if src.Location == "" {
			return Source{}, fmt.Errorf("file source %q has no path", raw)
		}
	case SchemeHTTP, SchemeHTTPS:
		if u.Host == "" {
			return Source{}, fmt.Errorf("http source %q has no host", raw)
		}
		src.Location = u.String()
	case SchemeS3:
		src.Bucket = u.Host
		src.Key = strings.TrimPrefix(u.Path, "/")
		if src.Bucket == "" || src.Key == "" {
			return Source{}, fmt.Errorf("s3 source %q must look like s3://bucket/key", raw)
		}
		src.Location = "s3://" + src.Bucket + "/" + src.Key
	case SchemeSQLite:
		src.Table = tableParam(u, table)
		src.Location = u.Host + u.Path
		if src.Location == "" {
			return Source{}, fmt.Errorf("sqlite source %q has no database path", raw)
		}
	case SchemePostgres, "postgresql":
		src.Scheme = SchemePostgres
		src.Table = tableParam(u, table)
		src.Location = u.String()
		src.display = u.Redacted()
	default:
		return Source{}, fmt.Errorf("unsupported dataset scheme %q", u.Scheme)
	}

	if src.Table != "" && !tablePattern.MatchString(src.Table) {
		return Source{}, fmt.Errorf("invalid table name %q", src.Table)
	}
	return src, nil
}

// tableParam pops the table query parameter from u, falling back to def.
func tableParam(u *url.URL, def string) string {
	q := u.Query()
	table := q.Get("table")
	if table == "" {
		return def
	}
	q.Del("table")
	u.RawQuery = q.Encode()
	return table
}
