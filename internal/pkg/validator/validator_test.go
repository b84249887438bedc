package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
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
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // v7
		"0188D0F2-7B8C-7B4A-8A2B-6B8B8B8B8B8B", // v7 uppercase
		"123e4567-e89b-42d3-a456-426614174000", // v4
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",     // missing dashes
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b", // invalid hex
		"123e4567-e89b-02d3-a456-426614174000", // version 0
		"",
	}
	for _, uuid := range valid {
		assert.True(t, IsValidUUID(uuid), "IsValidUUID(%q)", uuid)
	}
	for _, uuid := range invalid {
		assert.False(t, IsValidUUID(uuid), "IsValidUUID(%q)", uuid)
	}
}

func TestIsNumeric(t *testing.T) {
	for _, s := range []string{"123", "0", "9876543210"} {
		assert.True(t, IsNumeric(s), s)
	}
	for _, s := range []string{"abc", "123a", "", "-123"} {
		assert.False(t, IsNumeric(s), s)
	}
}

func TestIsValidDate(t *testing.T) {
	for _, s := range []string{"2023-01-01", "2000-12-31", "2024-02-29"} {
		_, ok := IsValidDate(s)
		assert.True(t, ok, s)
	}
	for _, s := range []string{"2023-13-01", "2023-02-30", "01/01/2023", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"tolerant", "strict"}
	assert.True(t, IsInSlice("strict", slice))
	assert.False(t, IsInSlice("lenient", slice))
	assert.False(t, IsInSlice("strict", nil))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "month", Message: "month must be between 1 and 12"},
		{Field: "year", Message: "year must be between 2000 and 2100"},
	}

	assert.Equal(t, "month: month must be between 1 and 12; year: year must be between 2000 and 2100", errs.Error())
	assert.Equal(t, map[string]string{
		"month": "month must be between 1 and 12",
		"year":  "year must be between 2000 and 2100",
	}, errs.ToMap())
}
