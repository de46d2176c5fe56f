package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRetryAttempts(t *testing.T) {
	tests := []struct {
		name       string
		configured int
		expected   int
	}{
		{name: "zero makes one attempt", configured: 0, expected: 1},
		{name: "negative makes one attempt", configured: -3, expected: 1},
		{name: "one is kept", configured: 1, expected: 1},
		{name: "positive is kept", configured: 5, expected: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, retryAttempts(tt.configured))
		})
	}
}
