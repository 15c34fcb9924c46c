package slip

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) for the
// normalized record as a generic map. The API layer validates every record
// it emits against this schema.
func BuildRecordJSONSchema() map[string]any {
	str := func() map[string]any { return map[string]any{"type": "string"} }
	money := map[string]any{"type": "number", "minimum": 0}

	party := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":           str(),
			"account_number": str(),
		},
		"required": []string{"name", "account_number"},
	}
	payee := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":             str(),
			"account_number":   str(),
			"biller_id":        str(),
			"store_code":       str(),
			"transaction_code": str(),
		},
		"required": []string{"name", "account_number", "biller_id", "store_code", "transaction_code"},
	}

	props := map[string]any{
		"bank_from":             str(),
		"bank_to":               str(),
		"status":                str(),
		"date_time_text":        str(),
		"date_time_iso":         map[string]any{"type": "string", "pattern": `^$|^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\+07:00$`},
		"from":                  party,
		"to":                    payee,
		"amount":                money,
		"fee":                   money,
		"currency":              str(),
		"transaction_reference": str(),
		"reference_number":      str(),
		"reference_code":        str(),
		"qr_code":               str(),
	}

	required := make([]string, 0, len(props))
	for k := range props {
		required = append(required, k)
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}

// ValidateRecordJSON checks a marshaled record against the schema.
func ValidateRecordJSON(data []byte) error {
	b, err := json.Marshal(BuildRecordJSONSchema())
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("slip.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("slip.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal record: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("record does not match schema: %w", err)
	}
	return nil
}
