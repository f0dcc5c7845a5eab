package trailhead

import "testing"

func TestParseOperation(t *testing.T) {
	op, err := parseOperation(CertificationsQuery, "slug", "hasSlug")
	if err != nil {
		t.Fatalf("parseOperation: %v", err)
	}
	if op.name != "GetUserCertifications" {
		t.Fatalf("unexpected name %q", op.name)
	}

	bad := map[string]string{
		"syntax":    `query Broken { profile(`,
		"anonymous": `{ profile { id } }`,
		"two ops":   `query A { a } query B { b }`,
		"missing":   `query A($slug: String) { profile(slug: $slug) { id } }`,
	}
	for name, q := range bad {
		if _, err := parseOperation(q, "slug", "hasSlug"); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
