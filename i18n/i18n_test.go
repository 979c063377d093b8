package i18n

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		tag  string
		want Language
	}{
		{"en", English},
		{"EN", English},
		{" english ", English},
		{"ar", Arabic},
		{"arabic", Arabic},
		{"", DefaultLanguage},
		{"fr", DefaultLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := Parse(tt.tag); got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestLanguageHelpers(t *testing.T) {
	if Arabic.Name() != "Arabic" || English.Name() != "English" {
		t.Errorf("unexpected names: %q %q", Arabic.Name(), English.Name())
	}
	if Arabic.Toggle() != English || English.Toggle() != Arabic {
		t.Error("Toggle() should switch between the two languages")
	}
	if !Arabic.IsRTL() || English.IsRTL() {
		t.Error("only Arabic is right to left")
	}
}

// Every field of every translation must be filled in
func TestTranslationsComplete(t *testing.T) {
	for _, lang := range []Language{Arabic, English} {
		tr := For(lang)
		v := reflect.ValueOf(tr)
		for i := 0; i < v.NumField(); i++ {
			if v.Field(i).String() == "" {
				t.Errorf("%s: field %s is empty", lang, v.Type().Field(i).Name)
			}
		}
	}
}

func TestForFallback(t *testing.T) {
	if For(Language("xx")).AppName != For(DefaultLanguage).AppName {
		t.Error("For() should fall back to the default language")
	}
}
