package constants

import (
	"testing"
)

func TestIsSuiteTable(t *testing.T) {
	tests := []struct {
		tableName string
		want      bool
	}{
		{"atlas_invoices", true},
		{"atlas_contacts", true},
		{"ATLAS_PRODUCTS", true},
		{"mysql", false},
		{"information_schema", false},
		{"users", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsSuiteTable(tt.tableName); got != tt.want {
			t.Errorf("IsSuiteTable(%q) = %v, want %v", tt.tableName, got, tt.want)
		}
	}
}
