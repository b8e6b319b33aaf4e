package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsWormhole(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"J154516", true},
		{"J100001", true},
		{"J0", true},
		{"Jita", false},
		{"j154516", false},
		{"Thera", false},
		{"J-GAMP", false},
		{"AJ1234", false},
		{"J", false},
		{"", false},
		{"J٣", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsWormhole(tt.name), "IsWormhole(%q)", tt.name)
	}
}
