// Package i18n holds the user-facing message catalog. Portuguese is the
// default language and carries the historical message texts unchanged;
// English is the alternate. Unknown codes fall back to the code itself.
package i18n

import (
	"fmt"
	"strings"
)

const defaultLang = "pt"

var translations = map[string]map[string]string{
	"pt": {
		"customer_not_found":  "Erro: Cliente não encontrado.",
		"employee_not_found":  "Erro: Funcionário não encontrado.",
		"product_not_found":   "Erro: Produto '%s' não encontrado.",
		"order_header_failed": "Erro: Falha ao inserir o cabeçalho do pedido.",
		"order_created":       "Pedido %d inserido com sucesso!",
		"order_not_found":     "Erro: Pedido com ID %d não encontrado.",
		"order_id_positive":   "Erro: ID do pedido deve ser um número inteiro positivo.",
		"date_range_invalid":  "Erro: A data inicial não pode ser posterior à data final.",
		"date_format_invalid": "Erro: Formato de data inválido. Use AAAA-MM-DD.",
		"ranking_empty":       "Nenhum pedido encontrado no período especificado.",
		"ranking_failed":      "Erro: Ocorreu um erro ao gerar o ranking de vendas.",
		"report_failed":       "Erro: Ocorreu um erro ao consultar o pedido.",
		"invalid_option":      "Opção inválida.",
		"goodbye":             "Programa encerrado. Até logo!",
	},
	"en": {
		"customer_not_found":  "Error: customer not found.",
		"employee_not_found":  "Error: employee not found.",
		"product_not_found":   "Error: product '%s' not found.",
		"order_header_failed": "Error: failed to insert the order header.",
		"order_created":       "Order %d created successfully!",
		"order_not_found":     "Error: order with ID %d not found.",
		"order_id_positive":   "Error: order ID must be a positive integer.",
		"date_range_invalid":  "Error: start date cannot be after end date.",
		"date_format_invalid": "Error: invalid date format. Use YYYY-MM-DD.",
		"ranking_empty":       "No orders found in the given period.",
		"ranking_failed":      "Error: failed to compute the sales ranking.",
		"report_failed":       "Error: failed to fetch the order.",
		"invalid_option":      "Invalid option.",
		"goodbye":             "Bye!",
	},
}

// DetectLanguage normalizes a language tag ("pt-BR", "EN") to a supported
// language, falling back to the default.
func DetectLanguage(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_,;"); i >= 0 {
		tag = tag[:i]
	}
	if _, ok := translations[tag]; ok {
		return tag
	}
	return defaultLang
}

// T returns the translation of code for lang. Unknown languages fall back
// to the default language; unknown codes fall back to the code itself.
func T(lang, code string) string {
	if msgs, ok := translations[lang]; ok {
		if msg, ok := msgs[code]; ok {
			return msg
		}
	}
	if msg, ok := translations[defaultLang][code]; ok {
		return msg
	}
	return code
}

// Tf is T with fmt verbs in the message.
func Tf(lang, code string, args ...any) string {
	return fmt.Sprintf(T(lang, code), args...)
}
