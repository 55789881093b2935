package query

import (
	"encoding/json"
	"strings"
)

// Shape trims rendered documents to the requested fields. Typed documents
// always render every struct field, so a projection has to be applied to the
// JSON form as well. The id is kept unless explicitly excluded.
func (f *Features) Shape(items interface{}) (interface{}, error) {
	if len(f.fields) == 0 {
		return items, nil
	}

	raw, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	var docs []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, err
	}
	if docs == nil {
		docs = []map[string]json.RawMessage{}
	}

	keys := make(map[string]bool, len(f.fields))
	for _, field := range f.fields {
		keys[jsonKey(field)] = true
	}

	for _, doc := range docs {
		for k := range doc {
			if f.exclude == keys[k] {
				if !f.exclude && k == "id" {
					continue
				}
				delete(doc, k)
			}
		}
	}
	return docs, nil
}

// jsonKey maps a projected path to the top-level JSON key it renders under.
func jsonKey(field string) string {
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[:i]
	}
	if field == "_id" {
		return "id"
	}
	return field
}
