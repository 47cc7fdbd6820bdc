package domain

// FinancingRequest es la entrada para calcular un plan de financiamiento.
type FinancingRequest struct {
	CarPrice    float64 `json:"car_price"`
	DownPayment float64 `json:"down_payment"`
	Years       int     `json:"years"`
}

// FinancingPlan es el resultado del cálculo. Valor derivado, nunca se
// modifica después de construirse.
type FinancingPlan struct {
	CarPrice       float64 `json:"car_price"`
	DownPayment    float64 `json:"down_payment"`
	LoanAmount     float64 `json:"loan_amount"`
	Years          int     `json:"years"`
	MonthlyPayment float64 `json:"monthly_payment"`
	TotalPayment   float64 `json:"total_payment"`
	TotalInterest  float64 `json:"total_interest"`
	InterestRate   float64 `json:"interest_rate"`
}
