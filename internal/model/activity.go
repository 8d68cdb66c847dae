package model

import "strings"

// ParseActivity reads an activity string of the form
//
//	name[@category][, description] [#tag ...]
//
// into a Fact without times. Tags are the trailing words starting with '#'.
func ParseActivity(s string) Fact {
	words := strings.Fields(s)
	var tags []string
	for len(words) > 0 && strings.HasPrefix(words[len(words)-1], "#") {
		if tag := strings.TrimLeft(words[len(words)-1], "#"); tag != "" {
			tags = append([]string{tag}, tags...)
		}
		words = words[:len(words)-1]
	}

	head := strings.Join(words, " ")
	var desc *string
	if i := strings.Index(head, ","); i >= 0 {
		if d := strings.TrimSpace(head[i+1:]); d != "" {
			desc = &d
		}
		head = head[:i]
	}

	f := Fact{Tags: tags, Description: desc}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	name, category, _ := strings.Cut(head, "@")
	f.Name = strings.TrimSpace(name)
	f.Category = strings.TrimSpace(category)
	return f
}
