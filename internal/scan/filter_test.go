package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageFilter_Matches(t *testing.T) {
	tests := []struct {
		name     string
		packages []string
		class    string
		want     bool
	}{
		{"empty filter matches all", nil, "com.example.billing.Invoice", true},
		{"direct member", []string{"com.example.orders"}, "com.example.orders.Order", true},
		{"sub-package", []string{"com.example.orders"}, "com.example.orders.line.Item", true},
		{"other package", []string{"com.example.orders"}, "com.example.billing.Invoice", false},
		{"sibling sharing prefix", []string{"com.example.orders"}, "com.example.ordersarchive.Old", false},
		{"package itself", []string{"com.example.orders"}, "com.example.orders", false},
		{"second package", []string{"com.a", "com.b"}, "com.b.X", true},
		{"wildcard suffix", []string{"com.example.*"}, "com.example.Order", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewPackageFilter(tt.packages...)
			assert.Equal(t, tt.want, f.Matches(tt.class))
		})
	}
}

func TestNewPackageFilter_Normalizes(t *testing.T) {
	f := NewPackageFilter(" com.b ", "", "com.a.", "com.b")

	assert.Equal(t, []string{"com.b", "com.a"}, f.Packages())
	assert.Equal(t, "com.b, com.a", f.String())
	assert.False(t, f.IsEmpty())
	assert.True(t, NewPackageFilter("  ").IsEmpty())
}
