// internal/core/validation_test.go
package core

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNormalizeTitle(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"simple", "Exercise", "Exercise", false},
		{"trimmed", "  Read a book ", "Read a book", false},
		{"unicode", "Beber água", "Beber água", false},
		{"max length", strings.Repeat("a", MaxTitleLength), strings.Repeat("a", MaxTitleLength), false},
		{"empty", "", "", true},
		{"whitespace only", "   \t", "", true},
		{"too long", strings.Repeat("a", MaxTitleLength+1), "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeTitle(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NormalizeTitle(%q) error = %v; wantErr %v", tc.input, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("NormalizeTitle(%q) error %v does not wrap ErrValidation", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("NormalizeTitle(%q) = %q; want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeWeekDays(t *testing.T) {
	testCases := []struct {
		name    string
		input   []int
		want    []int
		wantErr bool
	}{
		{"mon wed fri", []int{1, 3, 5}, []int{1, 3, 5}, false},
		{"unsorted with duplicates", []int{5, 1, 5, 3, 1}, []int{1, 3, 5}, false},
		{"bounds", []int{6, 0}, []int{0, 6}, false},
		{"every day", []int{0, 1, 2, 3, 4, 5, 6}, []int{0, 1, 2, 3, 4, 5, 6}, false},
		{"empty", []int{}, nil, true},
		{"nil", nil, nil, true},
		{"negative", []int{-1, 2}, nil, true},
		{"above six", []int{1, 7}, nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NormalizeWeekDays(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("NormalizeWeekDays(%v) error = %v; wantErr %v", tc.input, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("NormalizeWeekDays(%v) error %v does not wrap ErrValidation", tc.input, err)
			}
			if !tc.wantErr && !reflect.DeepEqual(got, tc.want) {
				t.Errorf("NormalizeWeekDays(%v) = %v; want %v", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"canonical", "7f1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d", "7f1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d", false},
		{"uppercase", "7F1B2C3D-4E5F-4A6B-8C7D-9E0F1A2B3C4D", "7f1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d", false},
		{"empty", "", "", true},
		{"garbage", "not-a-uuid", "", true},
		{"truncated", "7f1b2c3d-4e5f-4a6b-8c7d", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseID(tc.input)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ParseID(%q) error = %v; wantErr %v", tc.input, err, tc.wantErr)
			}
			if got != tc.want {
				t.Errorf("ParseID(%q) = %q; want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestIsValidViewMode(t *testing.T) {
	for mode, want := range map[string]bool{"year": true, "month": true, "week": false, "": false, "YEAR": false} {
		if got := IsValidViewMode(mode); got != want {
			t.Errorf("IsValidViewMode(%q) = %v; want %v", mode, got, want)
		}
	}
}
