package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAPIBase(t *testing.T) {
	tests := []struct {
		name     string
		override string
		origin   string
		want     string
	}{
		{"override wins", "https://api.example.com/", "http://localhost:8000", "https://api.example.com"},
		{"localhost page port", "", "http://localhost:8000", "http://localhost:8001"},
		{"localhost no port", "", "http://localhost", "http://localhost:8001"},
		{"loopback keeps other port", "", "http://127.0.0.1:5173", "http://127.0.0.1:5173"},
		{"loopback page port", "", "http://127.0.0.1:8000/index.html", "http://127.0.0.1:8001"},
		{"remote host keeps origin", "", "https://terranova.example:8443/app", "https://terranova.example:8443"},
		{"remote host without port", "", "https://terranova.example", "https://terranova.example"},
		{"file origin", "", "file:///home/me/index.html", "http://localhost:8001"},
		{"empty origin", "", "", "http://localhost:8001"},
		{"garbage origin", "", "://nope", "http://localhost:8001"},
		{"blank override ignored", "   ", "http://localhost:8000", "http://localhost:8001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveAPIBase(tt.override, tt.origin))
		})
	}
}
