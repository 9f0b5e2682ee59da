// Package cli implements the interactive menu: order creation, the order
// and ranking reports, the SQL-injection demonstration, and the secondary
// choice between the two data-access realizations.
//
// Menu text and input prompts are Portuguese only, matching the original
// operator interface; lang localizes outcome and error messages.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"northwind-orders/internal/i18n"
	"northwind-orders/internal/services"
	"northwind-orders/internal/store"
	"northwind-orders/internal/store/sqlstore"
)

type Menu struct {
	in   *bufio.Scanner
	out  io.Writer
	lang string
	eof  bool

	driver *services.OrderService // parameterized-query realization
	orm    *services.OrderService // ORM realization
	demo   *sqlstore.Store        // backs the injection demonstration
}

func New(in io.Reader, out io.Writer, lang string, driver, orm *services.OrderService, demo *sqlstore.Store) *Menu {
	return &Menu{
		in:     bufio.NewScanner(in),
		out:    out,
		lang:   lang,
		driver: driver,
		orm:    orm,
		demo:   demo,
	}
}

// Run loops over the main menu until the user quits or input runs out.
// Every failure path prints a localized message and returns to the menu.
func (m *Menu) Run(ctx context.Context) {
	for !m.eof {
		if done := m.mainMenu(ctx); done || m.eof {
			break
		}
		answer := strings.ToUpper(m.prompt("\nDeseja realizar outra operação? (S/N): "))
		if answer == "N" || m.eof {
			break
		}
		if answer != "S" {
			fmt.Fprintln(m.out, i18n.T(m.lang, "invalid_option"))
		}
	}
	fmt.Fprintln(m.out, i18n.T(m.lang, "goodbye"))
}

func (m *Menu) mainMenu(ctx context.Context) (done bool) {
	fmt.Fprintln(m.out, "--- Sistema de Inserção de Pedidos ---")
	choice := m.prompt(`
Opções:
1. Inserir novo pedido
2. Demonstrar SQL Injection
3. Relatório de Pedido
4. Ranking de Vendas por Funcionário
5. Sair
Escolha: `)

	switch choice {
	case "2":
		m.runInjectionDemo(ctx)
		return false
	case "5":
		return true
	case "1", "3", "4":
		svc := m.pickService()
		switch choice {
		case "1":
			m.runOrderCreation(ctx, svc)
		case "3":
			m.runOrderReport(ctx, svc)
		case "4":
			m.runEmployeeRanking(ctx, svc)
		}
		return false
	default:
		fmt.Fprintln(m.out, i18n.T(m.lang, "invalid_option"))
		return false
	}
}

// pickService asks which data-access realization to run the operation on.
func (m *Menu) pickService() *services.OrderService {
	for !m.eof {
		mode := m.prompt(`
Selecione o modo de execução:
1. driver (SQL parametrizado)
2. orm
Escolha: `)
		switch mode {
		case "1":
			return m.driver
		case "2":
			return m.orm
		}
		fmt.Fprintln(m.out, i18n.T(m.lang, "invalid_option"))
	}
	return m.driver
}

func (m *Menu) runOrderCreation(ctx context.Context, svc *services.OrderService) {
	fmt.Fprintln(m.out, "\n=== CRIAÇÃO DE NOVO PEDIDO ===")
	input := m.collectOrderInput()

	orderID, err := svc.CreateOrder(ctx, input)
	if err != nil {
		fmt.Fprintf(m.out, "\n[ERRO] %s\n", m.messageFor(err, "order_header_failed"))
		return
	}
	fmt.Fprintf(m.out, "\n[SUCESSO] %s\n", i18n.Tf(m.lang, "order_created", orderID))
}

func (m *Menu) runOrderReport(ctx context.Context, svc *services.OrderService) {
	fmt.Fprintln(m.out, "\n=== RELATÓRIO DE PEDIDO ===")
	orderID := m.promptOrderID()

	report, err := svc.OrderReport(ctx, orderID)
	if err != nil {
		fmt.Fprintf(m.out, "\n[ERRO] %s\n", m.messageFor(err, "report_failed"))
		return
	}
	m.displayOrderReport(report)
}

func (m *Menu) runEmployeeRanking(ctx context.Context, svc *services.OrderService) {
	fmt.Fprintln(m.out, "\n=== RANKING DE VENDAS POR FUNCIONÁRIO ===")
	start, end := m.promptDateRange()

	fmt.Fprintf(m.out, "\nGerando ranking para o período de %s a %s...\n",
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	entries, err := svc.EmployeeRanking(ctx, start, end)
	if err != nil {
		fmt.Fprintf(m.out, "\n[ERRO] %s\n", m.messageFor(err, "ranking_failed"))
		return
	}
	if len(entries) == 0 {
		fmt.Fprintf(m.out, "\n%s\n", i18n.T(m.lang, "ranking_empty"))
		return
	}
	m.displayEmployeeRanking(entries)
}

func (m *Menu) displayOrderReport(report *store.OrderReport) {
	fmt.Fprintf(m.out, "Número do pedido: %d\n", report.OrderID)
	fmt.Fprintf(m.out, "Data do pedido: %s\n", report.OrderDate.Format("2006-01-02"))
	fmt.Fprintf(m.out, "Nome do Cliente: %s\n", report.CustomerName)
	fmt.Fprintf(m.out, "Nome do Vendedor: %s\n", report.EmployeeName)
	fmt.Fprintln(m.out, "Itens do pedido:")
	for _, item := range report.Items {
		fmt.Fprintf(m.out, "\tProduto: %-30s Quantidade: %-8d Valor total: %15.2f\n",
			item.ProductName, item.Quantity, item.LineTotal)
	}
	fmt.Fprintf(m.out, "Total do pedido: %.2f\n", report.Total)
}

func (m *Menu) displayEmployeeRanking(entries []store.RankingEntry) {
	separator := strings.Repeat("=", 75)
	fmt.Fprintln(m.out, separator)
	fmt.Fprintln(m.out, "RANKING DE VENDAS POR FUNCIONÁRIO")
	fmt.Fprintln(m.out, separator)
	fmt.Fprintf(m.out, "%-5s %-30s %-15s %15s\n", "POS.", "FUNCIONÁRIO", "QTD PEDIDOS", "VALOR TOTAL")
	fmt.Fprintln(m.out, strings.Repeat("-", 75))
	for i, entry := range entries {
		fmt.Fprintf(m.out, "%-5d %-30s %-15d %15.2f\n", i+1, entry.EmployeeName, entry.OrderCount, entry.Total)
	}
	fmt.Fprintln(m.out, separator)
}

// messageFor maps an operation error to a localized user message.
// fallback is the code used for infrastructure failures.
func (m *Menu) messageFor(err error, fallback string) string {
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		return i18n.T(m.lang, validation.Code)
	}
	var notFound *store.NotFoundError
	if errors.As(err, &notFound) {
		switch notFound.Entity {
		case "customer":
			return i18n.T(m.lang, "customer_not_found")
		case "employee":
			return i18n.T(m.lang, "employee_not_found")
		case "product":
			return i18n.Tf(m.lang, "product_not_found", notFound.Name)
		case "order":
			id, _ := strconv.Atoi(notFound.Name)
			return i18n.Tf(m.lang, "order_not_found", id)
		}
	}
	if errors.Is(err, services.ErrHeaderInsert) {
		return i18n.T(m.lang, "order_header_failed")
	}
	return i18n.T(m.lang, fallback)
}

func (m *Menu) collectOrderInput() services.CreateOrderInput {
	input := services.CreateOrderInput{}

	fmt.Fprintln(m.out, "\n===== DADOS DO CLIENTE =====")
	input.CustomerName = m.prompt("Nome Cliente: ")

	fmt.Fprintln(m.out, "\n===== DADOS DO FUNCIONÁRIO =====")
	input.EmployeeFirstName = m.prompt("Primeiro nome do funcionário: ")
	input.EmployeeLastName = m.prompt("Sobrenome do funcionário: ")

	fmt.Fprintln(m.out, "\n===== DADOS DE ENVIO =====")
	input.Shipping = m.collectShipping()

	fmt.Fprintln(m.out, "\n===== ITENS DO PEDIDO =====")
	for {
		fmt.Fprintf(m.out, "\nItem #%d\n", len(input.Items)+1)
		input.Items = append(input.Items, m.collectLineItem())
		if strings.ToUpper(m.prompt("\nDeseja adicionar mais itens? (S/N): ")) != "S" {
			break
		}
	}
	return input
}

func (m *Menu) collectShipping() services.ShippingInfo {
	shipping := services.ShippingInfo{}
	shipping.ShipName = m.promptOptional("Nome para envio: ")
	shipping.ShipAddress = m.promptOptional("Endereço de envio: ")
	shipping.ShipCity = m.promptOptional("Cidade de envio: ")
	shipping.ShipRegion = m.promptOptional("Região/Estado de envio: ")
	shipping.ShipPostalCode = m.promptOptional("Código postal de envio: ")
	shipping.ShipCountry = m.promptOptional("País de envio: ")

	if raw := m.prompt("Frete (deixe em branco para 0): "); raw != "" {
		freight, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			fmt.Fprintln(m.out, "Valor inválido informado. Usando valores padrão.")
		} else {
			shipping.Freight = freight
		}
	}
	if raw := m.prompt("ID do transportador (deixe em branco se não souber): "); raw != "" {
		shipperID, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(m.out, "Valor inválido informado. Usando valores padrão.")
		} else {
			shipping.ShipperID = &shipperID
		}
	}
	return shipping
}

func (m *Menu) collectLineItem() services.LineItemInput {
	item := services.LineItemInput{Quantity: 1}
	item.ProductName = m.prompt("Nome do produto: ")

	if quantity, err := strconv.Atoi(m.prompt("Quantidade: ")); err == nil && quantity >= 1 {
		item.Quantity = quantity
	} else {
		fmt.Fprintln(m.out, "Valor inválido. Usando valores padrão (quantidade=1, desconto=0).")
		return item
	}
	if raw := m.prompt("Desconto (0.1 para 10%, 0 para nenhum): "); raw != "" {
		if discount, err := strconv.ParseFloat(raw, 64); err == nil && discount >= 0 && discount < 1 {
			item.Discount = discount
		} else {
			fmt.Fprintln(m.out, "Valor inválido. Usando desconto=0.")
		}
	}
	return item
}

func (m *Menu) promptOrderID() int {
	for {
		raw := m.prompt("Digite o ID do pedido que deseja consultar: ")
		orderID, err := strconv.Atoi(raw)
		if err != nil || orderID <= 0 {
			if m.eof {
				return 0
			}
			fmt.Fprintln(m.out, i18n.T(m.lang, "order_id_positive"))
			continue
		}
		return orderID
	}
}

func (m *Menu) promptDateRange() (start, end time.Time) {
	for {
		fmt.Fprintln(m.out, "(Formato de data: AAAA-MM-DD)")
		var err error
		if start, err = time.Parse("2006-01-02", m.prompt("Data inicial: ")); err != nil {
			if m.eof {
				return start, end
			}
			fmt.Fprintln(m.out, i18n.T(m.lang, "date_format_invalid"))
			continue
		}
		if end, err = time.Parse("2006-01-02", m.prompt("Data final: ")); err != nil {
			if m.eof {
				return start, end
			}
			fmt.Fprintln(m.out, i18n.T(m.lang, "date_format_invalid"))
			continue
		}
		if start.After(end) {
			fmt.Fprintln(m.out, i18n.T(m.lang, "date_range_invalid"))
			continue
		}
		return start, end
	}
}

func (m *Menu) prompt(label string) string {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		m.eof = true
		return ""
	}
	return strings.TrimSpace(m.in.Text())
}

func (m *Menu) promptOptional(label string) *string {
	value := m.prompt(label)
	if value == "" {
		return nil
	}
	return &value
}
