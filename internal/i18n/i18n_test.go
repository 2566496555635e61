package i18n

import (
	"context"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	return WithLanguage(context.Background(), lang)
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "AI Study Buddy" {
		t.Errorf("T(AppTitle) = %q, want 'AI Study Buddy'", got)
	}

	got = T(ctx, "PredictButton")
	if got != "Predict Exam Score" {
		t.Errorf("T(PredictButton) = %q, want 'Predict Exam Score'", got)
	}
}

func TestTranslateRussian(t *testing.T) {
	ctx := initLang(t, "ru")

	got := T(ctx, "TabChat")
	if got != "Чат-бот" {
		t.Errorf("T(TabChat) = %q, want 'Чат-бот'", got)
	}

	got = T(ctx, "PredictButton")
	if got != "Спрогнозировать оценку" {
		t.Errorf("T(PredictButton) = %q, want 'Спрогнозировать оценку'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "MessageCount", 1)
	if got1 != "1 message" {
		t.Errorf("Tp(MessageCount, 1) = %q, want '1 message'", got1)
	}

	got5 := Tp(ctx, "MessageCount", 5)
	if got5 != "5 messages" {
		t.Errorf("Tp(MessageCount, 5) = %q, want '5 messages'", got5)
	}
}

func TestTemplateDataTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got := Td(ctx, "PredictedScore", map[string]any{"Score": "72.50"})
	if got != "Predicted Exam Score: 72.50" {
		t.Errorf("Td(PredictedScore) = %q, want 'Predicted Exam Score: 72.50'", got)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want 'NonExistentKey'", got)
	}
}

func TestScoreFormatting(t *testing.T) {
	en := initLang(t, "en")
	if got := Score(en, 72.456); got != "72.46" {
		t.Errorf("Score(en) = %q, want 72.46", got)
	}

	ru := WithLanguage(context.Background(), "ru")
	if got := Score(ru, 72.456); got != "72,46" {
		t.Errorf("Score(ru) = %q, want 72,46", got)
	}
}

func TestInitRejectsBadTag(t *testing.T) {
	if err := Init("not a tag!"); err == nil {
		t.Error("expected error for invalid language tag")
	}
}

func TestLanguages(t *testing.T) {
	initLang(t, "en")

	got := map[string]bool{}
	for _, tag := range Languages() {
		got[tag.String()] = true
	}
	for _, want := range []string{"en", "ru"} {
		if !got[want] {
			t.Errorf("Languages() = %v, missing %q", Languages(), want)
		}
	}
}
