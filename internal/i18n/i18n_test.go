package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("pt-BR") != "pt" {
		t.Fatalf("expected pt for pt-BR")
	}
	if DetectLanguage("EN") != "en" {
		t.Fatalf("expected en for EN")
	}
	if DetectLanguage("es") != "pt" {
		t.Fatalf("expected pt fallback for es")
	}
	if DetectLanguage("") != "pt" {
		t.Fatalf("expected default pt")
	}
}

func TestTranslations(t *testing.T) {
	if T("pt", "customer_not_found") != "Erro: Cliente não encontrado." {
		t.Fatalf("unexpected pt message")
	}
	if T("en", "customer_not_found") != "Error: customer not found." {
		t.Fatalf("unexpected en message")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to pt translation if exists
	if T("es", "ranking_empty") != "Nenhum pedido encontrado no período especificado." {
		t.Fatalf("expected pt fallback for es lang")
	}
}

func TestTf(t *testing.T) {
	if got := Tf("pt", "order_created", 42); got != "Pedido 42 inserido com sucesso!" {
		t.Fatalf("Tf = %q", got)
	}
	if got := Tf("en", "product_not_found", "Chai"); got != "Error: product 'Chai' not found." {
		t.Fatalf("Tf = %q", got)
	}
}
