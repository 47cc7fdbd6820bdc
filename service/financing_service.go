package service

import (
	"math"

	"car-sales-agent/domain"
)

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

// FinancingService calcula planes de financiamiento a tasa fija. No tiene
// estado: el mismo request produce siempre el mismo plan.
type FinancingService struct{}

// NewFinancingService creates a new FinancingService.
func NewFinancingService() *FinancingService {
	return &FinancingService{}
}

// Calculate valida el request y produce el plan con la fórmula estándar de
// amortización a tasa fija. Los montos se redondean a 2 decimales solo al
// construir el resultado, nunca en los cálculos intermedios.
func (s *FinancingService) Calculate(
	req domain.FinancingRequest,
) (domain.FinancingPlan, error) {

	// Validar entrada
	if req.Years < MinFinancingYears || req.Years > MaxFinancingYears {
		return domain.FinancingPlan{}, &InvalidTermError{Years: req.Years}
	}
	if req.DownPayment < 0 || req.DownPayment >= req.CarPrice {
		return domain.FinancingPlan{}, &InvalidDownPaymentError{
			DownPayment: req.DownPayment,
			CarPrice:    req.CarPrice,
		}
	}

	loanAmount := req.CarPrice - req.DownPayment
	monthlyRate := AnnualInterestRate / 12
	numPayments := req.Years * 12

	var monthlyPayment float64
	if loanAmount > 0 {
		factor := math.Pow(1+monthlyRate, float64(numPayments))
		monthlyPayment = loanAmount * (monthlyRate * factor) / (factor - 1)
	}

	totalPayment := monthlyPayment*float64(numPayments) + req.DownPayment
	totalInterest := totalPayment - req.CarPrice

	return domain.FinancingPlan{
		CarPrice:       req.CarPrice,
		DownPayment:    req.DownPayment,
		LoanAmount:     roundTo2Decimals(loanAmount),
		Years:          req.Years,
		MonthlyPayment: roundTo2Decimals(monthlyPayment),
		TotalPayment:   roundTo2Decimals(totalPayment),
		TotalInterest:  roundTo2Decimals(totalInterest),
		InterestRate:   AnnualInterestRate,
	}, nil
}

// GetOptions genera un plan por cada plazo permitido, de MinFinancingYears a
// MaxFinancingYears. Sin enganche explícito se usa el 20% del precio. Un
// plazo que no valide se salta en silencio.
func (s *FinancingService) GetOptions(
	carPrice float64,
	downPayment *float64,
) []domain.FinancingPlan {

	dp := carPrice * DefaultDownPaymentRate
	if downPayment != nil {
		dp = *downPayment
	}

	var options []domain.FinancingPlan
	for years := MinFinancingYears; years <= MaxFinancingYears; years++ {
		plan, err := s.Calculate(domain.FinancingRequest{
			CarPrice:    carPrice,
			DownPayment: dp,
			Years:       years,
		})
		if err != nil {
			continue
		}
		options = append(options, plan)
	}
	return options
}
