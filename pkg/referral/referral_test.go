package referral

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateCaseID(t *testing.T) {
	for _, tc := range []struct {
		name    string
		full    string
		dob     string
		address string
		want    string
	}{
		{
			name:    "full data",
			full:    "Іван Петренко",
			dob:     "1990-05-12",
			address: "м. Одеса, вул. Дерибасівська 1",
			want:    "ІП19900512О",
		},
		{
			name:    "village marker",
			full:    "Олена Шевченко",
			dob:     "1985.01.02",
			address: "с. Щасливе, вул. Миру 3",
			want:    "ОШ19850102Щ",
		},
		{
			name:    "single name token",
			full:    "Марія",
			dob:     "2000-12-31",
			address: "м. Київ",
			want:    "М20001231К",
		},
		{
			name:    "empty name",
			full:    "",
			dob:     "1990-05-12",
			address: "м. Одеса",
			want:    "19900512О",
		},
		{
			name:    "no settlement marker falls back to first address char",
			full:    "Іван Петренко",
			dob:     "1990-05-12",
			address: "вул. Перемоги 10",
			want:    "ІП19900512В",
		},
		{
			name:    "empty address yields placeholder",
			full:    "Іван Петренко",
			dob:     "1990-05-12",
			address: "",
			want:    "ІП19900512X",
		},
		{
			name:    "extra name tokens ignored",
			full:    "Іван Петрович Петренко",
			dob:     "1990-05-12",
			address: "м. Одеса",
			want:    "ІП19900512О",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := GenerateCaseID(tc.full, tc.dob, tc.address); got != tc.want {
				t.Fatalf("GenerateCaseID = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateCaseID_Deterministic(t *testing.T) {
	a := GenerateCaseID("Іван Петренко", "1990-05-12", "м. Одеса")
	b := GenerateCaseID("Іван Петренко", "1990-05-12", "м. Одеса")
	if a != b {
		t.Fatalf("case IDs differ: %q vs %q", a, b)
	}
}

func TestArchiveFilename(t *testing.T) {
	date := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	got := ArchiveFilename("Odesa", `Центр "Довіра" Одеса`, date)
	want := "Odesa_2026-08-31_Центр__Довіра__Одеса"
	if got != want {
		t.Fatalf("filename = %q, want %q", got, want)
	}

	if got := ArchiveFilename("", "Фонд", date); got != "Region_2026-08-31_Фонд" {
		t.Fatalf("empty-region filename = %q", got)
	}
}

func TestBuildEmail(t *testing.T) {
	form := Form{
		ClientName:  "Іван Петренко",
		ClientPhone: "+380501112233",
		ClientDOB:   "1990-05-12",
		Address:     "м. Одеса, вул. Дерибасівська 1",
		Priority:    PriorityUrgent,
		Needs:       []string{"Юридична допомога", "Евакуація"},
		Notes:       "Потребує супроводу",
		HasConsent:  true,
	}

	email := BuildEmail(form, "Центр Довіра", "help@example.org")

	if email.To != "help@example.org" {
		t.Fatalf("to = %q", email.To)
	}
	if email.Subject != "Запит на допомогу: ІП19900512О" {
		t.Fatalf("subject = %q", email.Subject)
	}
	if !strings.HasPrefix(email.Body, "КОД СПРАВИ: ІП19900512О\n") {
		t.Fatalf("body must lead with the case code:\n%s", email.Body)
	}
	for _, fragment := range []string{
		"МІЖВІДОМЧА ФОРМА ПЕРЕНАПРАВЛЕННЯ",
		"ДО ОРГАНІЗАЦІЇ: Центр Довіра",
		"ПРІОРИТЕТ: ТЕРМІНОВО (24 год)",
		"ПІБ: Іван Петренко",
		"Юридична допомога, Евакуація",
		"Потребує супроводу",
		"--- ЗГОДА ---",
	} {
		if !strings.Contains(email.Body, fragment) {
			t.Fatalf("body missing %q:\n%s", fragment, email.Body)
		}
	}
}

func TestBuildEmail_StandardPriorityLabel(t *testing.T) {
	email := BuildEmail(Form{Priority: PriorityStandard}, "Фонд", "a@b.ua")
	if !strings.Contains(email.Body, "ПРІОРИТЕТ: Стандартно (3-5 днів)") {
		t.Fatalf("body missing standard priority label:\n%s", email.Body)
	}
}

func TestMailtoURL_EscapesQuery(t *testing.T) {
	email := Email{To: "a@b.ua", Subject: "Запит на допомогу: X", Body: "рядок 1\nрядок 2"}
	link := email.MailtoURL()
	if !strings.HasPrefix(link, "mailto:a@b.ua?subject=") {
		t.Fatalf("link = %q", link)
	}
	if strings.ContainsAny(link, " \n") {
		t.Fatalf("link contains unescaped whitespace: %q", link)
	}
}
