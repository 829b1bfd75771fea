package classroom

import "testing"

func TestAETLevelOrdering(t *testing.T) {
	levels := []AETLevel{AETNotYetDeveloped, AETDeveloping, AETEstablished, AETGeneralised}
	for i := 1; i < len(levels); i++ {
		if levels[i-1].Rank() >= levels[i].Rank() {
			t.Fatalf("rank(%s) should be below rank(%s)", levels[i-1], levels[i])
		}
	}
	if AETLevel("expert").Valid() || AETLevel("expert").Rank() != -1 {
		t.Fatalf("unknown level should be invalid")
	}
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{"EN": LanguageEnglish, " arabic ": LanguageArabic, "both": LanguageBilingual}
	for in, want := range cases {
		got, ok := ParseLanguage(in)
		if !ok || got != want {
			t.Fatalf("ParseLanguage(%q): want=%q got=%q ok=%v", in, want, got, ok)
		}
	}
	if _, ok := ParseLanguage("fr"); ok {
		t.Fatalf("ParseLanguage(fr): expected failure")
	}
	if !LanguageBilingual.NeedsArabic() || !LanguageBilingual.NeedsEnglish() {
		t.Fatalf("bilingual needs both variants")
	}
	if LanguageArabic.NeedsEnglish() {
		t.Fatalf("arabic should not need english")
	}
}
