package certs_test

import (
	"testing"
	"time"

	"github.com/tomasfarkasovsky/trailhead/internal/certs"
)

func TestParseDate(t *testing.T) {
	s := func(v string) *string { return &v }

	cases := []struct {
		name string
		in   *string
		want string
		ok   bool
	}{
		{"nil", nil, "", false},
		{"empty", s(""), "", false},
		{"plain", s("2023-03-01"), "2023-03-01", true},
		{"datetime suffix", s("2023-03-01T10:15:00Z"), "2023-03-01", true},
		{"timezone suffix", s("2024-12-31+02:00"), "2024-12-31", true},
		{"short", s("2023-3-1"), "", false},
		{"garbage", s("not-a-date"), "", false},
		{"bad month", s("2023-13-01"), "", false},
		{"bad day", s("2023-02-30"), "", false},
		{"slashes", s("2023/03/01"), "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := certs.ParseDate(tc.in)
			if ok != tc.ok {
				t.Fatalf("ParseDate ok = %v, want %v", ok, tc.ok)
			}
			if ok && got.String() != tc.want {
				t.Fatalf("ParseDate = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestParseDate_UTCMidnight(t *testing.T) {
	in := "2023-03-01T23:59:59-08:00"
	got, ok := certs.ParseDate(&in)
	if !ok {
		t.Fatalf("expected date")
	}
	if !got.Equal(certs.NewDate(2023, time.March, 1)) {
		t.Fatalf("unexpected date %v", got.Time())
	}
	if got.Time().Location() != time.UTC || got.Time().Hour() != 0 {
		t.Fatalf("expected UTC midnight, got %v", got.Time())
	}
}

func TestParseOptionalDate(t *testing.T) {
	bad := "soon"
	if certs.ParseOptionalDate(&bad) != nil {
		t.Fatalf("expected nil for malformed date")
	}
	good := "2024-03-01"
	d := certs.ParseOptionalDate(&good)
	if d == nil || d.String() != good {
		t.Fatalf("expected %s, got %v", good, d)
	}
	if p := certs.StringPtr(d); p == nil || *p != good {
		t.Fatalf("StringPtr = %v", p)
	}
	if certs.StringPtr(nil) != nil {
		t.Fatalf("StringPtr(nil) should be nil")
	}
}
