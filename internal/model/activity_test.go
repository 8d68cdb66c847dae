package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Tiliavir/hamster-cli/internal/model"
)

func TestParseActivity(t *testing.T) {
	desc := func(s string) *string { return &s }
	tests := []struct {
		in   string
		want model.Fact
	}{
		{"coding", model.Fact{Name: "coding", Tags: []string{}}},
		{"coding@work", model.Fact{Name: "coding", Category: "work", Tags: []string{}}},
		{"coding@work #x #y", model.Fact{Name: "coding", Category: "work", Tags: []string{"x", "y"}}},
		{
			"code review@work, parser patch #go",
			model.Fact{Name: "code review", Category: "work", Description: desc("parser patch"), Tags: []string{"go"}},
		},
		{"reading, #1 book", model.Fact{Name: "reading", Description: desc("#1 book"), Tags: []string{}}},
		{"lunch # #", model.Fact{Name: "lunch", Tags: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ParseActivity(tt.in))
		})
	}
}

func TestActivityString(t *testing.T) {
	assert.Equal(t, "coding@work", model.Activity{Name: "coding", Category: "work"}.String())
}
