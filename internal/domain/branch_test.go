package domain

import "testing"

func testDirectory() *Directory {
	return NewDirectory([]string{"السلالم", "المدينة", "الصويفية", "المركز الرئيسي"})
}

func TestDirectory_Normalize(t *testing.T) {
	dir := testDirectory()

	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"exact match", "السلالم", "السلالم", true},
		{"qualifier stripped", "فرع السلالم", "السلالم", true},
		{"surrounding whitespace", "  المدينة  ", "المدينة", true},
		{"qualifier and whitespace", " فرع الصويفية ", "الصويفية", true},
		{"multi word name", "المركز الرئيسي", "المركز الرئيسي", true},
		{"qualifier on multi word name", "فرع المركز الرئيسي", "المركز الرئيسي", true},
		{"unknown branch", "العبدلي", "", false},
		{"qualifier on unknown branch", "فرع العبدلي", "", false},
		{"empty input", "", "", false},
		{"whitespace only", "   ", "", false},
		{"qualifier alone", "فرع ", "", false},
		{"near miss is rejected", "السلالم الجديد", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := dir.Normalize(tt.raw)
			if ok != tt.ok {
				t.Fatalf("Normalize(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDirectory_NormalizeIsIdempotent(t *testing.T) {
	dir := testDirectory()

	once, ok := dir.Normalize("فرع المدينة")
	if !ok {
		t.Fatal("first normalization failed")
	}
	twice, ok := dir.Normalize(once)
	if !ok {
		t.Fatal("second normalization failed")
	}
	if once != twice {
		t.Errorf("normalization not idempotent: %q != %q", once, twice)
	}
}

func TestDirectory_List(t *testing.T) {
	names := []string{"السلالم", "المدينة"}
	dir := NewDirectory(names)

	list := dir.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 names, got %d", len(list))
	}
	if list[0] != "السلالم" || list[1] != "المدينة" {
		t.Errorf("directory order not preserved: %v", list)
	}

	// Mutating the returned slice must not touch the directory.
	list[0] = "غير موجود"
	if !dir.Contains("السلالم") {
		t.Error("directory mutated through List result")
	}
}

func TestDirectory_Contains(t *testing.T) {
	dir := testDirectory()

	if !dir.Contains("الصويفية") {
		t.Error("expected known branch to be contained")
	}
	if dir.Contains("فرع الصويفية") {
		t.Error("Contains must not strip the qualifier")
	}
	if dir.Contains("") {
		t.Error("empty name must not be contained")
	}
}
