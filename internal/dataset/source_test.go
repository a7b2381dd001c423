package dataset

import (
	"strings"
	"testing"
)

func TestParseSource(t *testing.T) {
	cases := []struct {
		raw      string
		scheme   string
		location string
		table    string
		remote   bool
	}{
		{"testdata/launches.csv", SchemeFile, "testdata/launches.csv", "", false},
		{"file:///srv/data/launches.csv", SchemeFile, "/srv/data/launches.csv", "", false},
		{"https://example.com/spacex.csv", SchemeHTTPS, "https://example.com/spacex.csv", "", true},
		{"s3://launch-data/spacex/launches.csv", SchemeS3, "s3://launch-data/spacex/launches.csv", "", true},
		{"sqlite:///var/lib/dash.db", SchemeSQLite, "/var/lib/dash.db", "launches", false},
		{"sqlite:///var/lib/dash.db?table=spacex", SchemeSQLite, "/var/lib/dash.db", "spacex", false},
		{"postgresql://dash@db:5432/spacex?sslmode=disable&table=public.launches", SchemePostgres, "postgresql://dash@db:5432/spacex?sslmode=disable", "public.launches", false},
	}
	for _, tc := range cases {
		t.Run(tc.raw, func(t *testing.T) {
			src, err := ParseSource(tc.raw, "")
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if src.Scheme != tc.scheme || src.Location != tc.location || src.Table != tc.table {
				t.Fatalf("unexpected source %+v", src)
			}
			if src.Remote() != tc.remote {
				t.Fatalf("remote = %v, want %v", src.Remote(), tc.remote)
			}
		})
	}
}

func TestParseSourceS3Parts(t *testing.T) {
	src, err := ParseSource("s3://launch-data/spacex/launches.csv", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if src.Bucket != "launch-data" || src.Key != "spacex/launches.csv" {
		t.Fatalf("unexpected bucket/key %q %q", src.Bucket, src.Key)
	}
}

func TestParseSourceRedactsPassword(t *testing.T) {
	src, err := ParseSource("postgres://dash:hunter2@db/spacex", "")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if strings.Contains(src.String(), "hunter2") {
		t.Fatalf("password leaked in %q", src.String())
	}
	if !strings.Contains(src.Location, "hunter2") {
		t.Fatalf("dsn lost credentials: %q", src.Location)
	}
}

func TestParseSourceErrors(t *testing.T) {
	for _, raw := range []string{
		"",
		"ftp://example.com/launches.csv",
		"s3://bucket-only",
		"https:///no-host.csv",
		"sqlite:///tmp/dash.db?table=launches%20drop",
	} {
		if _, err := ParseSource(raw, ""); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
