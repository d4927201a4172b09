package i18n

import "testing"

func TestGetCatalogFallback(t *testing.T) {
	base := GetCatalog("en-US")
	if base == nil {
		t.Fatal("expected base catalog")
	}
	fallback := GetCatalog("missing-locale")
	if fallback != base {
		t.Fatal("expected fallback to en-US catalog")
	}
	if GetCatalog("fr-FR, de;q=0.5") != base {
		t.Fatal("expected unsupported languages to fall back to en-US")
	}
}

func TestGetCatalogMatchesAcceptLanguage(t *testing.T) {
	tcs := []struct {
		header     string
		wantLocale string
	}{
		{header: "", wantLocale: "en-US"},
		{header: "pt-BR", wantLocale: "pt-BR"},
		{header: "pt", wantLocale: "pt-BR"},
		{header: "fr;q=0.9, pt-BR;q=0.8", wantLocale: "pt-BR"},
		{header: "en-GB", wantLocale: "en-US"},
	}
	for _, tc := range tcs {
		if got := GetCatalog(tc.header).Locale(); got != tc.wantLocale {
			t.Fatalf("GetCatalog(%q) locale = %q, want %q", tc.header, got, tc.wantLocale)
		}
	}
}

func TestShippedCatalogsCoverEveryCode(t *testing.T) {
	codes := []Code{
		CodeDiceParseFailed,
		CodeDiceEvaluationHalted,
		CodeDiceEvaluationFailed,
		CodeTicketUnknown,
		CodeTicketPending,
	}
	for _, cat := range []*Catalog{enUSCatalog, ptBRCatalog} {
		for _, code := range codes {
			if got := cat.Format(code, map[string]string{"Source": "2d6"}); got == code {
				t.Fatalf("%s catalog is missing %s", cat.Locale(), code)
			}
		}
	}
}

func TestFormatFallbacks(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "hello {{.Name}}",
	})

	if cat.Format("unknown", nil) != "unknown" {
		t.Fatal("expected code fallback when template missing")
	}
	if cat.Format("code", nil) != "hello <no value>" {
		t.Fatal("expected template to render missing metadata")
	}
}

func TestFormatTemplateErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ if .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ if .Name }}" {
		t.Fatal("expected template fallback on parse error")
	}
}

func TestFormatTemplateExecutionErrorFallback(t *testing.T) {
	cat := NewCatalog("test", map[Code]string{
		"code": "{{ call .Name }}",
	})
	if cat.Format("code", map[string]string{"Name": "X"}) != "{{ call .Name }}" {
		t.Fatal("expected template fallback on execute error")
	}
}

func TestRegisterCatalog(t *testing.T) {
	custom := NewCatalog("custom", map[Code]string{"code": "ok"})
	RegisterCatalog("custom", custom)
	if got := GetCatalog("custom"); got != custom {
		t.Fatal("expected registered catalog")
	}
}
