package ui

import (
	"fmt"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
)

func TestStatusLog_TrimsOldLines(t *testing.T) {
	test.NewApp()
	log := NewStatusLog(3)

	for i := 1; i <= 5; i++ {
		log.Append(fmt.Sprintf("line %d", i))
	}

	lines := log.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "line 3" || log.Last() != "line 5" {
		t.Errorf("unexpected lines %v", lines)
	}
	if log.label.Text != "line 3\nline 4\nline 5" {
		t.Errorf("unexpected label text %q", log.label.Text)
	}
}

func TestStatusLog_ErrorAndClear(t *testing.T) {
	test.NewApp()
	log := NewStatusLog(0)

	log.Error("boom")
	if got := log.Last(); got != IconError+" boom" {
		t.Errorf("Last() = %q", got)
	}

	log.Clear()
	if log.Last() != "" || len(log.Lines()) != 0 {
		t.Error("expected empty log after Clear")
	}
}

func TestLoadingIndicator(t *testing.T) {
	test.NewApp()
	li := newLoadingIndicator(func() string { return "Loading" }, time.Hour)

	for i, want := range []string{"Loading.", "Loading..", "Loading...", "Loading."} {
		if got := li.text(i); got != want {
			t.Errorf("text(%d) = %q, want %q", i, got, want)
		}
	}

	li.Start()
	if !li.Running() || !li.label.Visible() || li.label.Text != "Loading." {
		t.Error("expected running indicator after Start")
	}
	li.Start()
	li.Stop()
	if li.Running() || li.label.Visible() {
		t.Error("expected stopped indicator after Stop")
	}
}

func TestLocalization(t *testing.T) {
	l := NewLocalization()

	if got := l.GetText(KeyPreview); got != "Preview" {
		t.Errorf("default language text = %q", got)
	}

	l.SetLanguage("ru")
	if l.GetCurrentLanguage() != "ru" {
		t.Errorf("language = %q, want ru", l.GetCurrentLanguage())
	}
	if got := l.GetText(KeyPreview); got != "Просмотр" {
		t.Errorf("ru text = %q", got)
	}

	l.SetLanguage("xx")
	if l.GetCurrentLanguage() != "en" {
		t.Errorf("unknown language should fall back to en, got %q", l.GetCurrentLanguage())
	}
	if got := l.GetText("no_such_key"); got != "no_such_key" {
		t.Errorf("missing key should return the key, got %q", got)
	}
}

func TestLocalization_AllLanguagesComplete(t *testing.T) {
	l := NewLocalization()
	english := l.texts["en"]
	for code := range l.GetAvailableLanguages() {
		texts, ok := l.texts[code]
		if !ok {
			t.Errorf("no texts for %s", code)
			continue
		}
		for key := range english {
			if _, found := texts[key]; !found {
				t.Errorf("%s is missing %q", code, key)
			}
		}
	}
}

func TestValidateParallel(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"", false},
		{"1", false},
		{"10", false},
		{"0", true},
		{"11", true},
		{"abc", true},
	}
	for _, tt := range tests {
		if err := validateParallel(tt.in); (err != nil) != tt.wantErr {
			t.Errorf("validateParallel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
	}
}
