package fields

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// RuleSpec is the declarative form of one extraction rule.
type RuleSpec struct {
	Field   string `json:"field"`
	Pattern string `json:"pattern"`
	Group   int    `json:"group"`
}

type rulesDoc struct {
	Fields []RuleSpec `json:"fields"`
}

// DefaultRules returns the built-in rule table. The invoice-number and total
// patterns are matched case-insensitively against the whole text; the total is
// captured verbatim (commas and periods preserved), it is a display string,
// not a number. Vendor and date have no built-in patterns.
func DefaultRules() []RuleSpec {
	return []RuleSpec{
		{Field: FieldInvoiceNumber, Pattern: `(?i)Invoice\s*#?\s*(\w+)`, Group: 1},
		{Field: FieldTotal, Pattern: `(?i)Total\s*[:\-]?\s*([\d,.]+)`, Group: 1},
	}
}

// rulesSchema constrains user-supplied rules files: known field names only,
// non-empty pattern, positive capture group.
const rulesSchema = `{
  "type": "object",
  "additionalProperties": false,
  "required": ["fields"],
  "properties": {
    "fields": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["field", "pattern"],
        "properties": {
          "field": {
            "type": "string",
            "enum": ["invoice_number", "vendor", "date", "total"]
          },
          "pattern": {"type": "string", "minLength": 1},
          "group": {"type": "integer", "minimum": 1}
        }
      }
    }
  }
}`

// LoadRules reads a JSON rules file, validates it against the rules schema,
// and returns the specs. Group defaults to 1 when omitted.
func LoadRules(path string) ([]RuleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("rules.schema.json", strings.NewReader(rulesSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("rules.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("rules do not match schema: %w", err)
	}

	var doc rulesDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	for i := range doc.Fields {
		if doc.Fields[i].Group == 0 {
			doc.Fields[i].Group = 1
		}
	}
	return doc.Fields, nil
}

func compileRules(specs []RuleSpec) ([]compiledRule, error) {
	known := map[string]struct{}{
		FieldInvoiceNumber: {},
		FieldVendor:        {},
		FieldDate:          {},
		FieldTotal:         {},
	}
	rules := make([]compiledRule, 0, len(specs))
	for _, s := range specs {
		if _, ok := known[s.Field]; !ok {
			return nil, fmt.Errorf("unknown field %q", s.Field)
		}
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern for %s: %w", s.Field, err)
		}
		group := s.Group
		if group == 0 {
			group = 1
		}
		if group > re.NumSubexp() {
			return nil, fmt.Errorf("pattern for %s has %d capture groups, group %d requested", s.Field, re.NumSubexp(), group)
		}
		rules = append(rules, compiledRule{field: s.Field, re: re, group: group})
	}
	return rules, nil
}
