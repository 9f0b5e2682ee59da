package cli

import (
	"context"
	"fmt"
)

// maliciousProductName escapes the product-name filter and smuggles in a
// subquery that matches the most expensive product.
const maliciousProductName = "' OR unitprice = (SELECT MAX(unitprice) FROM products) --"

// runInjectionDemo shows why the resolver must use bound parameters: the
// same lookup built by string concatenation executes attacker-controlled
// SQL. It runs against the concatenated variant only; the safe resolver
// treats the whole input as a literal name.
func (m *Menu) runInjectionDemo(ctx context.Context) {
	fmt.Fprintln(m.out, "\n=== SQL Injection na busca de produto ===")
	fmt.Fprintf(m.out, "Busca com SQL Injection: (%s)\n", maliciousProductName)
	fmt.Fprintf(m.out, "SQL executado: SELECT productid, unitprice FROM products WHERE productname = '%s'\n", maliciousProductName)
	fmt.Fprintln(m.out, "O comando acima retorna o produto com o maior preço devido à subconsulta.")

	product, err := m.demo.UnsafeFindProductByName(ctx, maliciousProductName)
	if err != nil {
		fmt.Fprintf(m.out, "Resultado: erro (%v)\n", err)
		return
	}
	fmt.Fprintf(m.out, "Resultado: productid=%d unitprice=%.2f (produto mais caro da tabela)\n",
		product.ID, product.UnitPrice)

	fmt.Fprintln(m.out, "\nA mesma entrada na busca parametrizada não encontra nada:")
	if _, err := m.demo.FindProductByName(ctx, maliciousProductName); err != nil {
		fmt.Fprintf(m.out, "Resultado: %v\n", err)
	}
}
