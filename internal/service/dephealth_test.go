// dephealth_test.go — unit-тесты построения health path бэкенда.
package service

import (
	"testing"
)

// TestAPIHealthPath проверяет построение пути health endpoint из базового URL.
func TestAPIHealthPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "URL с версионированным префиксом",
			input:    "https://api.sacdia.app/api/v1",
			expected: "/api/v1/health",
		},
		{
			name:     "URL с trailing slash",
			input:    "https://api.sacdia.app/api/v1/",
			expected: "/api/v1/health",
		},
		{
			name:     "URL без path",
			input:    "http://localhost:3000",
			expected: "/health",
		},
		{
			name:     "только корень",
			input:    "http://localhost:3000/",
			expected: "/health",
		},
		{
			name:     "пустая строка",
			input:    "",
			expected: "/health",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := APIHealthPath(tt.input)
			if result != tt.expected {
				t.Errorf("APIHealthPath(%q) = %q, ожидалось %q", tt.input, result, tt.expected)
			}
		})
	}
}
