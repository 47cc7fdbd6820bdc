package service

import "fmt"

// InvalidTermError indica un plazo fuera del rango permitido.
type InvalidTermError struct {
	Years int
}

func (e *InvalidTermError) Error() string {
	return fmt.Sprintf("el plazo debe ser entre %d y %d años, se recibió %d",
		MinFinancingYears, MaxFinancingYears, e.Years)
}

// InvalidDownPaymentError indica un enganche negativo o mayor o igual al
// precio del auto.
type InvalidDownPaymentError struct {
	DownPayment float64
	CarPrice    float64
}

func (e *InvalidDownPaymentError) Error() string {
	if e.DownPayment < 0 {
		return "el enganche no puede ser negativo"
	}
	return fmt.Sprintf("el enganche ($%.2f) no puede ser mayor o igual al precio del auto ($%.2f)",
		e.DownPayment, e.CarPrice)
}

// UnknownToolError indica una herramienta no registrada.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("herramienta desconocida: %s", e.Name)
}

// InvalidArgumentsError indica argumentos que no cumplen el esquema de la
// herramienta (JSON inválido, campo requerido ausente, tipo incorrecto).
type InvalidArgumentsError struct {
	Tool string
	Err  error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("argumentos inválidos para %s: %v", e.Tool, e.Err)
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }
