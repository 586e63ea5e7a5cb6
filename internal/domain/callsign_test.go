package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallsignResolver(t *testing.T) {
	resolver := CallsignResolver{
		Mapping: map[string]string{
			"IDS60910.94682.json": "VK5ABC-13",
			"IDS60910.95687.json": "",
		},
		Default: "N0CALL-13",
	}

	tests := []struct {
		name        string
		sourceFile  string
		stationName string
		expected    string
	}{
		{"mapping entry wins", "IDS60910.94682.json", "Adelaide (West Terrace)", "VK5ABC-13"},
		{"mapping matches archive basename", "IDS60910/IDS60910.94682.json", "Adelaide", "VK5ABC-13"},
		{"empty mapping entry falls through to name", "IDS60910.95687.json", "Parafield", "Parafield"},
		{"unmapped with no name uses default", "IDS60910.99999.json", "", "N0CALL-13"},
		{"unmapped derives from name", "IDS60910.99999.json", "Edinburgh", "Edinburgh"},
		{"name cut at first whitespace", "IDS60910.99999.json", "Mount Gambier Aero", "Mount"},
		{"long single word truncated", "IDS60910.99999.json", "Coonawarra", "Coonawarr"},
		{"whitespace-only name uses default", "IDS60910.99999.json", "   ", "N0CALL-13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, resolver.Resolve(tt.sourceFile, tt.stationName))
		})
	}
}

func TestCallsignResolverMaxLength(t *testing.T) {
	resolver := CallsignResolver{Default: "N0CALL", MaxLength: 4}

	assert.Equal(t, "Cedu", resolver.Resolve("x.json", "Ceduna"))
}

func TestCallsignResolverNoMapping(t *testing.T) {
	resolver := CallsignResolver{Default: "N0CALL-13"}

	assert.Equal(t, "N0CALL-13", resolver.Resolve("anything.json", ""))
}
