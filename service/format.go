package service

import (
	"fmt"
	"strings"

	"car-sales-agent/domain"
)

// Los resultados de herramientas se entregan al modelo como texto plano en
// español, nunca como estructuras crudas.

func formatCarResults(cars []domain.Car) string {
	if len(cars) == 0 {
		return "No se encontraron autos que coincidan con los criterios especificados."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Encontré %d autos que podrían interesarte:\n\n", len(cars))
	for i, car := range cars {
		fmt.Fprintf(&b, "%d. %d %s %s\n", i+1, car.Year, car.Make, car.Model)
		fmt.Fprintf(&b, "   Precio: $%.2f\n", car.Price)
		fmt.Fprintf(&b, "   Kilómetros: %d\n", car.KM)
		if car.Version != "" {
			fmt.Fprintf(&b, "   Versión: %s\n", car.Version)
		}
		fmt.Fprintf(&b, "   ID: %s\n\n", car.StockID)
	}
	return b.String()
}

func formatFinancingPlan(p domain.FinancingPlan) string {
	return fmt.Sprintf(`Plan de Financiamiento:
Precio del auto: $%.2f
Enganche: $%.2f
Monto a financiar: $%.2f
Plazo: %d años
Pago mensual: $%.2f
Total a pagar: $%.2f
Total de intereses: $%.2f
Tasa de interés: %.0f%% anual`,
		p.CarPrice, p.DownPayment, p.LoanAmount, p.Years,
		p.MonthlyPayment, p.TotalPayment, p.TotalInterest,
		p.InterestRate*100)
}

func formatFinancingOptions(options []domain.FinancingPlan) string {
	if len(options) == 0 {
		return "No se pudieron generar opciones de financiamiento."
	}

	var b strings.Builder
	b.WriteString("Opciones de Financiamiento:\n\n")
	for i, plan := range options {
		fmt.Fprintf(&b, "Opción %d - %d años:\n", i+1, plan.Years)
		fmt.Fprintf(&b, "  Pago mensual: $%.2f\n", plan.MonthlyPayment)
		fmt.Fprintf(&b, "  Total a pagar: $%.2f\n", plan.TotalPayment)
		fmt.Fprintf(&b, "  Intereses totales: $%.2f\n\n", plan.TotalInterest)
	}
	return b.String()
}
