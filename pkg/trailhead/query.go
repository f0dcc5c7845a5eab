package trailhead

import (
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// CertificationsQuery asks for the public certification list of one profile.
const CertificationsQuery = `query GetUserCertifications($slug: String, $hasSlug: Boolean!) {
  profile(slug: $slug) @include(if: $hasSlug) {
    __typename
    id
    ... on PublicProfile {
      credential {
        certifications {
          title
          dateCompleted
          dateExpired
          product
          publicDescription
          status {
            title
            expired
            date
          }
        }
      }
    }
  }
}`

// operation is a parsed single-operation query document.
type operation struct {
	name  string
	query string
}

// parseOperation checks that query holds exactly one named operation which
// declares every variable in vars.
func parseOperation(query string, vars ...string) (operation, error) {
	doc, err := parser.ParseQuery(&ast.Source{Name: "query.graphql", Input: query})
	if err != nil {
		return operation{}, fmt.Errorf("parse query: %w", err)
	}
	if len(doc.Operations) != 1 {
		return operation{}, fmt.Errorf("expected one operation, got %d", len(doc.Operations))
	}

	op := doc.Operations[0]
	if op.Name == "" {
		return operation{}, fmt.Errorf("operation must be named")
	}
	for _, v := range vars {
		if op.VariableDefinitions.ForName(v) == nil {
			return operation{}, fmt.Errorf("operation %s does not declare $%s", op.Name, v)
		}
	}

	return operation{name: op.Name, query: query}, nil
}
