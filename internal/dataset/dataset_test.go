package dataset

import "testing"

func mustNew(t *testing.T, cols []string, rows [][]string) *Dataset {
	t.Helper()
	ds, err := New(cols, rows)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return ds
}

func TestNew_RejectsDuplicateColumns(t *testing.T) {
	if _, err := New([]string{"a", "a"}, nil); err == nil {
		t.Error("expected error for duplicate column names")
	}
}

func TestNew_RejectsRaggedRows(t *testing.T) {
	if _, err := New([]string{"a", "b"}, [][]string{{"1"}}); err == nil {
		t.Error("expected error for ragged row")
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"42", 42, true},
		{"1,234.56", 1234.56, true},
		{"$12", 12, true},
		{"€9.5", 9.5, true},
		{"-3.5", -3.5, true},
		{"", 0, false},
		{"N/A", 0, false},
		{"hello", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseNumber(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestKindInference(t *testing.T) {
	ds := mustNew(t,
		[]string{"region", "revenue", "mixed", "day", "empty"},
		[][]string{
			{"north", "1,200", "12", "2024-01-01", ""},
			{"south", "900", "abc", "2024-01-02", ""},
			{"east", "$450", "def", "2024-01-03", ""},
		},
	)

	tests := []struct {
		col  string
		want Kind
	}{
		{"region", KindText},
		{"revenue", KindNumeric},
		{"mixed", KindNumeric}, // 1 of 3 parses, above the 30% threshold
		{"day", KindTemporal},
		{"empty", KindUnknown},
	}

	for _, tt := range tests {
		if got := ds.Kind(tt.col); got != tt.want {
			t.Errorf("Kind(%q) = %v, want %v", tt.col, got, tt.want)
		}
	}
}

func TestPartitions(t *testing.T) {
	ds := mustNew(t,
		[]string{"date", "sales", "region"},
		[][]string{
			{"2024-01-01", "100", "north"},
			{"2024-01-02", "200", "south"},
		},
	)

	num := ds.NumericColumns()
	if len(num) != 1 || num[0] != "sales" {
		t.Errorf("NumericColumns() = %v, want [sales]", num)
	}

	cat := ds.CategoricalColumns()
	if len(cat) != 2 || cat[0] != "date" || cat[1] != "region" {
		t.Errorf("CategoricalColumns() = %v, want [date region]", cat)
	}
}

func TestFloatPairs_SkipsUnparsableRows(t *testing.T) {
	ds := mustNew(t,
		[]string{"a", "b"},
		[][]string{
			{"1", "10"},
			{"2", ""},
			{"3", "30"},
			{"x", "40"},
		},
	)

	xs, ys := ds.FloatPairs("a", "b")
	if len(xs) != 2 || len(ys) != 2 {
		t.Fatalf("FloatPairs kept %d pairs, want 2", len(xs))
	}
	if xs[0] != 1 || ys[0] != 10 || xs[1] != 3 || ys[1] != 30 {
		t.Errorf("FloatPairs = %v, %v", xs, ys)
	}
}

func TestNullCountAndUnique(t *testing.T) {
	ds := mustNew(t,
		[]string{"c"},
		[][]string{{"x"}, {""}, {"x"}, {"y"}, {"N/A"}},
	)

	if got := ds.NullCount("c"); got != 2 {
		t.Errorf("NullCount = %d, want 2", got)
	}
	if got := ds.UniqueCount("c"); got != 2 {
		t.Errorf("UniqueCount = %d, want 2", got)
	}
}
