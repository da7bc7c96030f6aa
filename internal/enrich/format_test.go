// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short stays whole", "Anna Keller", 22, "Anna Keller"},
		{"exact fit", "abcdef", 6, "abcdef"},
		{"ascii clipped", "abcdefghij", 6, "abc..."},
		{"umlaut kept whole", "Zürich, Switzerland", 19, "Zürich, Switzerland"},
		{"umlaut clipped on rune boundary", "Züricher Außenhandelsbüro", 10, "Züriche..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clip(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("clip(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("clip(%q, %d) produced invalid UTF-8: %q", tt.in, tt.max, got)
			}
		})
	}
}

func TestFormatRosterSurvivesMultiByteNames(t *testing.T) {
	var sb strings.Builder
	FormatRoster([]types.ContactRecord{
		{
			Name:     "Jürgen Großkreutz-Müllerweiler",
			Title:    "Geschäftsführer",
			Email:    "j@example.ch",
			Location: "Zürich, Switzerland",
			Source:   types.SourceManual,
		},
	}, dachRegion(t), &sb)

	if !utf8.ValidString(sb.String()) {
		t.Error("roster table contains invalid UTF-8")
	}
	if !strings.Contains(sb.String(), "Zürich") {
		t.Error("location lost its umlaut in table output")
	}
}
