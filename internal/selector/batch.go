package selector

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Field is one named selector in a batch, e.g. {"title_selector", "h1.title"}.
type Field struct {
	Name     string
	Selector string
}

// BatchResult holds the per-field records of one ProcessAll call. Order
// preserves the input field order because Go maps do not; MarshalJSON emits
// processed_selectors in that order.
type BatchResult struct {
	Order    []string
	Records  map[string]*Record
	AllValid bool
}

// ProcessAll classifies every field independently. Classification failures
// are captured as invalid records carrying the normalized selector and the
// failure detail, never propagated, so one bad selector cannot abort the
// batch. AllValid is the AND of every record's validity.
func ProcessAll(fields []Field) *BatchResult {
	res := &BatchResult{
		Records:  make(map[string]*Record, len(fields)),
		AllValid: true,
	}

	for _, f := range fields {
		rec, err := Classify(f.Selector)
		if err != nil {
			rec = &Record{
				Raw:       f.Selector,
				Kind:      KindInvalid,
				Processed: Normalize(f.Selector),
				Valid:     false,
				Message:   err.Error(),
			}
		}
		if rec.Kind == KindEmpty {
			rec.Message = "Empty selector"
		}
		if !rec.Valid {
			res.AllValid = false
		}

		if _, seen := res.Records[f.Name]; !seen {
			res.Order = append(res.Order, f.Name)
		}
		res.Records[f.Name] = rec
	}

	return res
}

// MarshalJSON renders the result as
// {"processed_selectors": {field: record, ...}, "all_valid": bool}
// with fields in input order.
func (b *BatchResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"processed_selectors":{`)
	for i, name := range b.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("marshaling field name %q: %w", name, err)
		}
		val, err := json.Marshal(b.Records[name])
		if err != nil {
			return nil, fmt.Errorf("marshaling record %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteString(`},"all_valid":`)
	if b.AllValid {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
