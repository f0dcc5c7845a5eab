package reconcile_test

import (
	"testing"

	"github.com/tomasfarkasovsky/trailhead/internal/reconcile"
)

func s(v string) *string { return &v }

func TestMerge_KeepIfPresent(t *testing.T) {
	cases := []struct {
		name       string
		stored, in *string
		want       *string
	}{
		{"null stored", nil, s("ana"), s("ana")},
		{"empty stored", s(""), s("ana"), s("ana")},
		{"blank stored", s("  "), s("ana"), s("ana")},
		{"present stored", s("Ana Smith"), s("ana"), s("Ana Smith")},
		{"null incoming keeps null", nil, nil, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			merged, touch := reconcile.UserRule.Merge(reconcile.Values{"name": tc.stored}, reconcile.Values{"name": tc.in})
			got := merged["name"]
			if (got == nil) != (tc.want == nil) || (got != nil && *got != *tc.want) {
				t.Fatalf("name = %v, want %v", got, tc.want)
			}
			if !touch {
				t.Fatalf("user rule always touches")
			}
		})
	}
}

func TestMerge_Tracked(t *testing.T) {
	rule := reconcile.UserCertificationRule
	stored := reconcile.Values{"date_completed": s("2023-03-01"), "date_expired": nil}

	_, touch := rule.Merge(stored, reconcile.Values{"date_completed": s("2023-03-01"), "date_expired": nil})
	if touch {
		t.Fatalf("null to null must not touch")
	}

	_, touch = rule.Merge(stored, reconcile.Values{"date_completed": s("2023-04-01"), "date_expired": nil})
	if touch {
		t.Fatalf("date_completed change alone must not touch")
	}

	merged, touch := rule.Merge(stored, reconcile.Values{"date_completed": s("2023-03-01"), "date_expired": s("2024-03-01")})
	if !touch || *merged["date_expired"] != "2024-03-01" {
		t.Fatalf("expected touch with new expiry, got %v %v", touch, merged["date_expired"])
	}

	merged, touch = rule.Merge(reconcile.Values{"date_expired": s("2024-03-01")}, reconcile.Values{"date_expired": nil})
	if !touch || merged["date_expired"] != nil {
		t.Fatalf("clearing expiry is a change")
	}
}

func TestMerge_Overwrite(t *testing.T) {
	merged, touch := reconcile.CertificationRule.Merge(
		reconcile.Values{"title": s("Admin"), "product": s("Old")},
		reconcile.Values{"title": s("Admin"), "product": nil})
	if merged["product"] != nil || *merged["title"] != "Admin" || !touch {
		t.Fatalf("unexpected merge %v %v", merged, touch)
	}
}

func TestPolicyString(t *testing.T) {
	if reconcile.Tracked.String() != "tracked" || reconcile.Policy(42).String() != "unknown" {
		t.Fatalf("unexpected policy names")
	}
}
