// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package genparse

import (
	"reflect"
	"testing"
)

func TestSalvagePrefersTitleFields(t *testing.T) {
	raw := `The response was cut off: {"names": [{"title": "Woolhaven", "description": "cozy"},
{"title": "Knitwick", "descripti`

	got := SalvageNames(raw)
	want := []string{"Woolhaven", "Knitwick"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SalvageNames() = %v, want %v", got, want)
	}
}

func TestSalvageFallsBackToQuotedStrings(t *testing.T) {
	raw := `Some options could be "Woolhaven" or perhaps "Hearthspun", both fit well.`

	got := SalvageNames(raw)
	want := []string{"Woolhaven", "Hearthspun"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SalvageNames() = %v, want %v", got, want)
	}
}

func TestSalvageFallsBackToShortLines(t *testing.T) {
	raw := "Here are some ideas that could work nicely for you:\n1. Woolhaven\n2. Purl & Ember\n- Loopline\n\nEach of these names was chosen to evoke warmth and craft."

	got := SalvageNames(raw)
	want := []string{"Woolhaven", "Purl & Ember", "Loopline"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SalvageNames() = %v, want %v", got, want)
	}
}

func TestSalvageDeduplicatesAndCaps(t *testing.T) {
	raw := `"Woolhaven" "woolhaven" "Knitwick" "Loopline" "Hearthspun" "Purl" "Ember" "Extra"`

	got := SalvageNames(raw)
	if len(got) != ExpectedNames {
		t.Fatalf("len = %d, want cap at %d", len(got), ExpectedNames)
	}
	if got[0] != "Woolhaven" || got[1] != "Knitwick" {
		t.Errorf("dedupe broke ordering: %v", got)
	}
}

func TestSalvageNothingRecoverable(t *testing.T) {
	raw := `!!! ### 12345 ,,,, ()()`
	if got := SalvageNames(raw); got != nil {
		t.Errorf("SalvageNames() = %v, want nil", got)
	}
}

func TestCleanCandidate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Woolhaven", "Woolhaven"},
		{"  Purl   &  Ember  ", "Purl & Ember"},
		{"a", ""},                            // too short
		{"9Lives", ""},                       // starts with a digit
		{"title", ""},                        // contract vocabulary
		{"one two three four five", ""},      // too many words
		{"Name with, punctuation!", ""},      // disallowed characters
		{"O'Malley's Yarn", "O'Malley's Yarn"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := cleanCandidate(tt.in); got != tt.want {
				t.Errorf("cleanCandidate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
