package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"northwind-orders/internal/models"
	"northwind-orders/internal/services"
	"northwind-orders/internal/store/gormstore"
	"northwind-orders/internal/store/storetest"
)

// Scripted end-to-end pass through the menu: create an order on the ORM
// realization, then fetch its report, then quit.
func TestMenuCreateAndReportFlow(t *testing.T) {
	db := storetest.OpenTestDB(t)
	chaiPrice := 18.0
	fixtures := []any{
		&models.Customer{CustomerID: "ALFKI", CompanyName: "Alfreds Futterkiste"},
		&models.Employee{EmployeeID: 1, FirstName: "Nancy", LastName: "Davolio"},
		&models.Product{ProductID: 1, ProductName: "Chai", UnitPrice: &chaiPrice},
	}
	for _, fixture := range fixtures {
		if err := db.Create(fixture).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	svc := services.NewOrderService(gormstore.New(db), zerolog.Nop())

	script := strings.Join([]string{
		"1", // create order
		"2", // orm mode
		"Alfreds Futterkiste",
		"Nancy",
		"Davolio",
		"", "", "", "", "", "", // shipping fields left blank
		"5.0", // freight
		"",    // shipper id
		"Chai",
		"2",
		"0",
		"N", // no more items
		"S", // another operation
		"3", // order report
		"2", // orm mode
		"1", // order id
		"N", // done
	}, "\n") + "\n"

	var out bytes.Buffer
	menu := New(strings.NewReader(script), &out, "pt", svc, svc, nil)
	menu.Run(context.Background())

	output := out.String()
	for _, want := range []string{
		"[SUCESSO] Pedido 1 inserido com sucesso!",
		"Nome do Cliente: Alfreds Futterkiste",
		"Nome do Vendedor: Nancy Davolio",
		"Chai",
		"Total do pedido: 36.00",
		"Programa encerrado. Até logo!",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n---\n%s", want, output)
		}
	}
}

func TestMenuFailureKeepsLooping(t *testing.T) {
	db := storetest.OpenTestDB(t)
	svc := services.NewOrderService(gormstore.New(db), zerolog.Nop())

	script := "3\n1\n42\nS\n5\n"
	var out bytes.Buffer
	menu := New(strings.NewReader(script), &out, "pt", svc, svc, nil)
	menu.Run(context.Background())

	output := out.String()
	if !strings.Contains(output, "Erro: Pedido com ID 42 não encontrado.") {
		t.Errorf("missing not-found message\n---\n%s", output)
	}
	// The loop survived the failure and reached the exit option.
	if !strings.Contains(output, "Programa encerrado. Até logo!") {
		t.Errorf("missing goodbye\n---\n%s", output)
	}
}

// Exhausted input must terminate the loop instead of spinning on empty
// reads.
func TestMenuStopsWhenInputExhausted(t *testing.T) {
	db := storetest.OpenTestDB(t)
	svc := services.NewOrderService(gormstore.New(db), zerolog.Nop())

	t.Run("EmptyInput", func(t *testing.T) {
		var out bytes.Buffer
		menu := New(strings.NewReader(""), &out, "pt", svc, svc, nil)
		menu.Run(context.Background())

		output := out.String()
		if !strings.Contains(output, "Programa encerrado. Até logo!") {
			t.Fatalf("Run did not reach the exit path\n---\n%s", output)
		}
		if n := strings.Count(output, "Opção inválida."); n > 1 {
			t.Errorf("invalid-option printed %d times on empty input", n)
		}
	})

	t.Run("TruncatedMidFlow", func(t *testing.T) {
		// Input ends while the order-id prompt is re-asking.
		var out bytes.Buffer
		menu := New(strings.NewReader("3\n1\n"), &out, "pt", svc, svc, nil)
		menu.Run(context.Background())

		if !strings.Contains(out.String(), "Programa encerrado. Até logo!") {
			t.Fatalf("Run did not reach the exit path\n---\n%s", out.String())
		}
	})
}

// Unparsable quantity and discount fall back to 1 and 0, and a malformed
// ranking date re-prompts instead of failing the operation.
func TestMenuInputDefaultsAndReprompts(t *testing.T) {
	db := storetest.OpenTestDB(t)
	chaiPrice, changPrice := 18.0, 19.0
	fixtures := []any{
		&models.Customer{CustomerID: "ALFKI", CompanyName: "Alfreds Futterkiste"},
		&models.Employee{EmployeeID: 1, FirstName: "Nancy", LastName: "Davolio"},
		&models.Product{ProductID: 1, ProductName: "Chai", UnitPrice: &chaiPrice},
		&models.Product{ProductID: 2, ProductName: "Chang", UnitPrice: &changPrice},
	}
	for _, fixture := range fixtures {
		if err := db.Create(fixture).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	svc := services.NewOrderService(gormstore.New(db), zerolog.Nop())

	script := strings.Join([]string{
		"1", // create order
		"2", // orm mode
		"Alfreds Futterkiste",
		"Nancy",
		"Davolio",
		"", "", "", "", "", "", // shipping fields left blank
		"",       // freight
		"",       // shipper id
		"Chai",   // item 1
		"muitos", // quantity does not parse, defaults to 1 with no discount
		"S",
		"Chang", // item 2
		"3",
		"dez", // discount does not parse, defaults to 0
		"N",
		"S",
		"4", // employee ranking
		"2", // orm mode
		"10/05/2024", // wrong date format, must re-prompt
		"2000-01-01",
		"2999-12-31",
		"N",
	}, "\n") + "\n"

	var out bytes.Buffer
	menu := New(strings.NewReader(script), &out, "pt", svc, svc, nil)
	menu.Run(context.Background())

	output := out.String()
	for _, want := range []string{
		"Valor inválido. Usando valores padrão (quantidade=1, desconto=0).",
		"Valor inválido. Usando desconto=0.",
		"[SUCESSO] Pedido 1 inserido com sucesso!",
		"Erro: Formato de data inválido. Use AAAA-MM-DD.",
		"Nancy Davolio",
		// 1*18.00 + 3*19.00 with the defaulted quantity and discount.
		"75.00",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q\n---\n%s", want, output)
		}
	}
}

func TestMenuEnglishMessages(t *testing.T) {
	db := storetest.OpenTestDB(t)
	svc := services.NewOrderService(gormstore.New(db), zerolog.Nop())

	script := "3\n1\n7\nN\n"
	var out bytes.Buffer
	menu := New(strings.NewReader(script), &out, "en", svc, svc, nil)
	menu.Run(context.Background())

	if !strings.Contains(out.String(), "Error: order with ID 7 not found.") {
		t.Errorf("missing english message\n---\n%s", out.String())
	}
}
