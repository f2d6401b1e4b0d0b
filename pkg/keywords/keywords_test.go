package keywords

import (
	"strings"
	"testing"

	"github.com/dtnitsch/llms-builder/models"
)

func TestFrequency(t *testing.T) {
	freq := Frequency("Knee pain and knee surgery. The knee, the pain!")
	if freq["knee"] != 3 {
		t.Errorf("knee = %d, want 3", freq["knee"])
	}
	if freq["pain"] != 2 {
		t.Errorf("pain = %d, want 2", freq["pain"])
	}
	if _, ok := freq["the"]; ok {
		t.Error("stopword counted")
	}
	if _, ok := freq["and"]; ok {
		t.Error("stopword counted")
	}
}

func TestFrequencySkipsShortWords(t *testing.T) {
	freq := Frequency("Dr Ng md hip")
	if _, ok := freq["ng"]; ok {
		t.Error("two-letter word counted")
	}
	if freq["hip"] != 1 {
		t.Errorf("hip = %d, want 1", freq["hip"])
	}
}

func TestTopN(t *testing.T) {
	freq := map[string]int{"therapy": 5, "knee": 3, "spine": 3, "rare": 1}
	top := TopN(freq, 3)
	want := []string{"therapy:5", "knee:3", "spine:3"}
	if len(top) != 3 {
		t.Fatalf("got %v", top)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("top[%d] = %q, want %q", i, top[i], want[i])
		}
	}
}

func TestTopNFewerThanN(t *testing.T) {
	top := TopN(map[string]int{"one": 1}, 10)
	if len(top) != 1 {
		t.Errorf("got %v", top)
	}
}

func TestFromPages(t *testing.T) {
	set := models.NewCategorizedSet()
	set.Add("Services", &models.DisplayPage{
		Title: "PRP Therapy", Description: "Regenerative therapy injections.",
	})
	set.Add("Blog", &models.DisplayPage{
		Title: "Therapy Options", Description: "Comparing therapy choices.",
	})

	top := FromPages(set, 5)
	if len(top) == 0 || !strings.HasPrefix(top[0], "therapy:") {
		t.Errorf("top = %v, want therapy first", top)
	}
}
