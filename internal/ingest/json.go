package ingest

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"insightgen/internal/dataset"
)

// LoadJSON accepts either an array of flat objects or a single object.
// Columns are the sorted union of keys; rows missing a key get an empty
// value.
func LoadJSON(data []byte) (*dataset.Dataset, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	var objects []map[string]any
	switch v := parsed.(type) {
	case []any:
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("parse json: array elements must be objects, got %T", item)
			}
			objects = append(objects, obj)
		}
	case map[string]any:
		objects = []map[string]any{v}
	default:
		return nil, fmt.Errorf("parse json: expected object or array of objects, got %T", parsed)
	}

	keySet := make(map[string]bool)
	for _, obj := range objects {
		for k := range obj {
			keySet[k] = true
		}
	}
	columns := make([]string, 0, len(keySet))
	for k := range keySet {
		columns = append(columns, k)
	}
	slices.Sort(columns)

	rows := make([][]string, 0, len(objects))
	for _, obj := range objects {
		row := make([]string, len(columns))
		for i, col := range columns {
			row[i] = stringify(obj[col])
		}
		rows = append(rows, row)
	}

	return buildClean(columns, rows)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		// Nested structures keep their JSON form.
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
