package inputval

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a, b ,,c", []string{"a", "b", "c"}},
		{"", []string{}},
		{"   ", []string{}},
		{",,,", []string{}},
		{"single", []string{"single"}},
		{" React , Next.js , Go ", []string{"React", "Next.js", "Go"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := SplitList(tt.in)
			if got == nil {
				t.Fatal("SplitList() returned nil, want empty list")
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("SplitList(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestSplitList_RoundTripProperty(t *testing.T) {
	properties := gopter.NewProperties(nil)

	// Items as produced by SplitList never contain commas or surrounding space.
	item := gen.RegexMatch(`^[A-Za-z0-9.+#]([A-Za-z0-9 .+#]*[A-Za-z0-9.+#])?$`)

	properties.Property("join then split is identity on parsed lists", prop.ForAll(
		func(items []string) bool {
			parsed := SplitList(strings.Join(items, ","))
			again := SplitList(JoinList(parsed))
			return cmp.Equal(parsed, again)
		},
		gen.SliceOf(item),
	))

	properties.Property("parsing is idempotent", prop.ForAll(
		func(raw string) bool {
			once := SplitList(raw)
			return cmp.Equal(once, SplitList(JoinList(once)))
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}

type faqItem struct {
	Question string `json:"question" validate:"required" label:"Question"`
	Answer   string `json:"answer" validate:"required" label:"Answer"`
}

func TestParseJSONList(t *testing.T) {
	t.Run("valid list", func(t *testing.T) {
		res := &Result{}
		got := ParseJSONList[faqItem](`[{"question":"Q1","answer":"A1"}]`, "faqItems", "FAQ items", res)
		if res.HasErrors() {
			t.Fatalf("unexpected errors: %s", res.All())
		}
		want := []faqItem{{Question: "Q1", Answer: "A1"}}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("blank is empty list", func(t *testing.T) {
		res := &Result{}
		got := ParseJSONList[faqItem]("  ", "faqItems", "FAQ items", res)
		if res.HasErrors() || got == nil || len(got) != 0 {
			t.Errorf("got %v, errors %q; want empty list and no errors", got, res.All())
		}
	})

	t.Run("malformed json is a field error", func(t *testing.T) {
		res := &Result{}
		got := ParseJSONList[faqItem](`[{"question":`, "faqItems", "FAQ items", res)
		if got != nil {
			t.Errorf("got %v, want nil", got)
		}
		if _, ok := res.Fields()["faqItems"]; !ok {
			t.Errorf("missing faqItems error, got %v", res.Fields())
		}
	})

	t.Run("object instead of list", func(t *testing.T) {
		res := &Result{}
		ParseJSONList[faqItem](`{"question":"Q"}`, "faqItems", "FAQ items", res)
		if !res.HasErrors() {
			t.Error("expected an error for a non-list value")
		}
	})

	t.Run("element failing schema", func(t *testing.T) {
		res := &Result{}
		ParseJSONList[faqItem](`[{"question":"Q1","answer":"A1"},{"question":"","answer":"A2"}]`, "faqItems", "FAQ items", res)
		if got := res.Fields()["faqItems[1].question"]; got != "Question is required." {
			t.Errorf("faqItems[1].question = %q, want %q (all: %v)", got, "Question is required.", res.Fields())
		}
	})
}
