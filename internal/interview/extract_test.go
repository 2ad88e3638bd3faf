package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractQuestions(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect []string
	}{
		{
			name:   "numbered lines",
			input:  "Here are your questions:\n1. What do you enjoy?\n2.  Where do you see yourself?  \n",
			expect: []string{"What do you enjoy?", "Where do you see yourself?"},
		},
		{
			name:   "numbered lines win over prefixed",
			input:  "Q: ignored\n1. kept",
			expect: []string{"kept"},
		},
		{
			name:   "prefixed lines",
			input:  "Intro\r\nQ: Why this field?\r\n  Q:   Which tools?\r\n",
			expect: []string{"Why this field?", "Which tools?"},
		},
		{
			name:   "falls back to non-empty lines",
			input:  "  First question  \n\n Second question\n",
			expect: []string{"First question", "Second question"},
		},
		{
			name:   "empty input",
			input:  " \n\t\n",
			expect: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, ExtractQuestions(tt.input))
		})
	}
}
