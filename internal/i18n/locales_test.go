package i18n

import (
	"errors"
	"testing"
)

func newTestSelector(t *testing.T) *Selector {
	t.Helper()
	selector, err := NewSelector("en", []string{"en", "km", "fr", "zh", "ja", "ko", "th", "vi"})
	if err != nil {
		t.Fatalf("NewSelector returned error: %v", err)
	}
	return selector
}

func TestAuthoredPairSwitchesWithoutReload(t *testing.T) {
	selector := newTestSelector(t)

	selection, err := selector.Select("km")
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if selection.ReloadRequired {
		t.Fatal("expected en -> km to switch without a reload")
	}
	if !selection.Locale.Authored {
		t.Fatal("expected km to be marked authored")
	}

	selection, err = selector.Select("en")
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if selection.ReloadRequired {
		t.Fatal("expected km -> en to switch without a reload")
	}
}

func TestTranslatedLocaleRequiresReloadBothWays(t *testing.T) {
	selector := newTestSelector(t)

	selection, err := selector.Select("fr")
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if !selection.ReloadRequired {
		t.Fatal("expected en -> fr to require a reload")
	}
	if selection.Locale.Authored {
		t.Fatal("expected fr to be marked translated")
	}

	selection, err = selector.Select("km")
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if !selection.ReloadRequired {
		t.Fatal("expected fr -> km to require a reload")
	}
}

func TestReselectingCurrentLocaleIsANoOp(t *testing.T) {
	selector := newTestSelector(t)

	if _, err := selector.Select("ja"); err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	selection, err := selector.Select("ja")
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if selection.ReloadRequired {
		t.Fatal("expected reselecting the current locale to skip the reload")
	}
}

func TestSelectRejectsUnsupportedLocale(t *testing.T) {
	selector := newTestSelector(t)

	if _, err := selector.Select("de"); !errors.Is(err, ErrUnsupportedLocale) {
		t.Fatalf("expected ErrUnsupportedLocale, got %v", err)
	}
	if selector.Current().Code != "en" {
		t.Fatalf("expected current locale to stay en, got %s", selector.Current().Code)
	}
}

func TestMatchNegotiatesAcceptLanguage(t *testing.T) {
	selector := newTestSelector(t)

	cases := []struct {
		header string
		want   string
	}{
		{"km-KH,km;q=0.9,en;q=0.5", "km"},
		{"fr-FR,fr;q=0.8", "fr"},
		{"de-DE,de;q=0.9", "en"},
		{"", "en"},
		{"not a header", "en"},
	}
	for _, tc := range cases {
		if got := selector.Match(tc.header); got.Code != tc.want {
			t.Fatalf("Match(%q) = %s, want %s", tc.header, got.Code, tc.want)
		}
	}
}

func TestNewSelectorValidatesConfiguration(t *testing.T) {
	if _, err := NewSelector("", []string{"en"}); err == nil {
		t.Fatal("expected an error for a missing default locale")
	}
	if _, err := NewSelector("en", nil); err == nil {
		t.Fatal("expected an error for an empty supported set")
	}
	if _, err := NewSelector("fr", []string{"en", "km"}); !errors.Is(err, ErrUnsupportedLocale) {
		t.Fatalf("expected ErrUnsupportedLocale for a default outside the set, got %v", err)
	}
	if _, err := NewSelector("en", []string{"en", "??"}); err == nil {
		t.Fatal("expected an error for an unparsable locale code")
	}
}
