package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // valid UUIDv7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // valid UUIDv7 (uppercase)
		"123e4567-e89b-42d3-a456-426614174000", // v4 rows seeded outside the app
	}
	invalid := []string{
		"123e4567-e89b-02d3-a456-426614174000", // version 0
		"abc",                                  // path segment typo
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"",                                     // empty
	}
	for _, uuid := range valid {
		if !IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = false, want true", uuid)
		}
	}
	for _, uuid := range invalid {
		if IsValidUUID(uuid) {
			t.Errorf("IsValidUUID(%q) = true, want false", uuid)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2025-01-10", "2024-02-29"}
	invalid := []string{"2025-13-01", "2025-02-30", "10-01-2025", "2025/01/10", ""}
	for _, d := range valid {
		if _, ok := IsValidDate(d); !ok {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidYearMonth(t *testing.T) {
	valid := []string{"2025-01", "1999-12"}
	invalid := []string{"2025-1", "2025-13", "202501", "2025-01-01", "jan-2025", ""}
	for _, m := range valid {
		if _, ok := IsValidYearMonth(m); !ok {
			t.Errorf("IsValidYearMonth(%q) = false, want true", m)
		}
	}
	for _, m := range invalid {
		if _, ok := IsValidYearMonth(m); ok {
			t.Errorf("IsValidYearMonth(%q) = true, want false", m)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"requested_by_me", "approvable"}
	if !IsInSlice("approvable", slice) {
		t.Error("IsInSlice should return true for existing value")
	}
	if IsInSlice("everything", slice) {
		t.Error("IsInSlice should return false for missing value")
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"emp001", "A.B_C-1", "abc"}
	invalid := []string{"ab", "has space", "emoji😀", ""}
	for _, c := range valid {
		if !IsValidEmployeeCode(c) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", c)
		}
	}
	for _, c := range invalid {
		if IsValidEmployeeCode(c) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", c)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "reason", Message: "reason is required"},
		{Field: "type", Message: "invalid type"},
	}
	want := "reason: reason is required; type: invalid type"
	if errs.Error() != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", errs.Error(), want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "reason", Message: "reason is required"},
		{Field: "type", Message: "invalid type"},
	}
	m := errs.ToMap()
	if m["reason"] != "reason is required" || m["type"] != "invalid type" {
		t.Errorf("ValidationErrors.ToMap() = %v", m)
	}
}

type structSample struct {
	Code string `json:"employee_code" validate:"required,employee_code"`
	Name string `json:"name" validate:"notblank,max=10"`
	Role string `json:"role" validate:"oneof=EMPLOYEE MANAGER"`
}

func TestStruct(t *testing.T) {
	if err := Struct(structSample{Code: "emp001", Name: "Kim", Role: "EMPLOYEE"}); err != nil {
		t.Fatalf("Struct() unexpected error: %v", err)
	}

	err := Struct(structSample{Code: "x", Name: "   ", Role: "ADMIN"})
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Struct() error type = %T, want ValidationErrors", err)
	}
	m := errs.ToMap()
	for _, field := range []string{"employee_code", "name", "role"} {
		if _, found := m[field]; !found {
			t.Errorf("expected validation error for %q, got %v", field, m)
		}
	}
}
