package assistant

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestKeywordClassifier(t *testing.T) {
	classify := KeywordClassifier(nil)
	for _, tc := range []struct {
		query string
		want  bool
	}{
		{"додаток гальмує на телефоні", true},
		{"ГАЛЬМУЄ", true},
		{"все дуже повільно", true},
		{"знайшла баг у фільтрах", true},
		{"performance is terrible", true},
		{"чому так довго думає", true},
		{"де знайти гуманітарну допомогу в Одесі", false},
		{"", false},
	} {
		if got := classify(tc.query); got != tc.want {
			t.Fatalf("classify(%q) = %v, want %v", tc.query, got, tc.want)
		}
	}
}

func TestKeywordClassifier_CustomList(t *testing.T) {
	classify := KeywordClassifier([]string{"lag"})
	if !classify("the app LAGS") {
		t.Fatal("custom keyword not matched case-insensitively")
	}
	if classify("додаток гальмує") {
		t.Fatal("default keywords must not apply when a custom list is given")
	}
}

func TestTranscript_CoalescesConsecutiveLiveFragments(t *testing.T) {
	var tr Transcript
	tr.AppendLive(RoleModel, "Вітаю,")
	tr.AppendLive(RoleModel, "сонечко!")

	msgs := tr.Messages()
	if len(msgs) != 1 {
		t.Fatalf("message count = %d, want 1", len(msgs))
	}
	if msgs[0].Text != "Вітаю, сонечко!" {
		t.Fatalf("merged text = %q", msgs[0].Text)
	}
	if !msgs[0].Live {
		t.Fatal("merged message must stay live")
	}
}

func TestTranscript_DoesNotMergeAcrossRoles(t *testing.T) {
	var tr Transcript
	tr.AppendLive(RoleUser, "де")
	tr.AppendLive(RoleModel, "зараз")
	tr.AppendLive(RoleUser, "допомога")

	msgs := tr.Messages()
	if len(msgs) != 3 {
		t.Fatalf("message count = %d, want 3", len(msgs))
	}
}

func TestTranscript_OneShotMessageBlocksMerge(t *testing.T) {
	var tr Transcript
	tr.Append(NewMessage(RoleModel, "Одноразова відповідь."))
	tr.AppendLive(RoleModel, "живий фрагмент")

	msgs := tr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("message count = %d, want 2", len(msgs))
	}
	if msgs[0].Text != "Одноразова відповідь." {
		t.Fatalf("one-shot message mutated: %q", msgs[0].Text)
	}
	if !msgs[1].Live || msgs[1].Text != "живий фрагмент" {
		t.Fatalf("live fragment not started fresh: %+v", msgs[1])
	}
}

func TestContextPreamble(t *testing.T) {
	got := ContextPreamble(5200, "де прихисток")
	want := "Контекст: База містить 5200 організацій. Запит: де прихисток"
	if got != want {
		t.Fatalf("preamble = %q, want %q", got, want)
	}
}

func TestPersonaPrompt_EndsWithAdviceBlock(t *testing.T) {
	if !strings.Contains(PaniDumkaPrompt, "### 🕊️ Порада від пані Думки") {
		t.Fatal("persona prompt missing mandatory closing advice block")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.FastModel != "gemini-3-flash-preview" || cfg.DeepModel != "gemini-3-pro-preview" {
		t.Fatalf("unexpected default models: %+v", cfg)
	}
	if cfg.ThinkingBudget != 32768 {
		t.Fatalf("thinking budget = %d", cfg.ThinkingBudget)
	}
	if cfg.Voice != string(VoiceKore) {
		t.Fatalf("default voice = %q", cfg.Voice)
	}
}

func TestLoadConfig_FileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.toml")
	body := "voice = \"Zephyr\"\ndiagnostic_keywords = [\"lag\"]\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Voice != "Zephyr" {
		t.Fatalf("voice = %q", cfg.Voice)
	}
	if len(cfg.DiagnosticKeywords) != 1 || cfg.DiagnosticKeywords[0] != "lag" {
		t.Fatalf("keywords = %v", cfg.DiagnosticKeywords)
	}
	// Untouched fields keep their defaults.
	if cfg.TTSModel != "gemini-2.5-flash-preview-tts" {
		t.Fatalf("tts model = %q", cfg.TTSModel)
	}
}

func TestLoadConfig_RejectsUnknownVoice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assistant.toml")
	if err := os.WriteFile(path, []byte("voice = \"Barvinok\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for unknown voice")
	}
}

func TestExposedVoices(t *testing.T) {
	if len(ExposedVoices) != 2 {
		t.Fatalf("exposed voice count = %d, want 2", len(ExposedVoices))
	}
	for _, id := range ExposedVoices {
		if !ValidVoice(id.Voice) {
			t.Fatalf("exposed identity %q maps to invalid voice %q", id.Name, id.Voice)
		}
	}
}
