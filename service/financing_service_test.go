package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-sales-agent/domain"
)

func TestCalculate_StandardPlan(t *testing.T) {
	financing := NewFinancingService()

	plan, err := financing.Calculate(domain.FinancingRequest{
		CarPrice:    250000,
		DownPayment: 50000,
		Years:       4,
	})
	require.NoError(t, err)

	assert.Equal(t, 250000.0, plan.CarPrice)
	assert.Equal(t, 50000.0, plan.DownPayment)
	assert.Equal(t, 200000.0, plan.LoanAmount)
	assert.Equal(t, 4, plan.Years)
	assert.Equal(t, AnnualInterestRate, plan.InterestRate)

	// 200000 a 48 meses con tasa mensual 0.10/12.
	assert.InDelta(t, 5072.52, plan.MonthlyPayment, 0.01)
	assert.InDelta(t, 293480.81, plan.TotalPayment, 0.5)
	assert.InDelta(t, 43480.81, plan.TotalInterest, 0.5)
}

func TestCalculate_Deterministic(t *testing.T) {
	financing := NewFinancingService()
	req := domain.FinancingRequest{CarPrice: 320000, DownPayment: 64000, Years: 5}

	a, err := financing.Calculate(req)
	require.NoError(t, err)
	b, err := financing.Calculate(req)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestCalculate_InvalidTerm(t *testing.T) {
	financing := NewFinancingService()

	for _, years := range []int{0, 2, 7} {
		_, err := financing.Calculate(domain.FinancingRequest{
			CarPrice:    250000,
			DownPayment: 50000,
			Years:       years,
		})

		var termErr *InvalidTermError
		require.ErrorAs(t, err, &termErr)
		assert.Equal(t, years, termErr.Years)
	}
}

func TestCalculate_InvalidDownPayment(t *testing.T) {
	financing := NewFinancingService()

	tests := []struct {
		name        string
		downPayment float64
	}{
		{name: "negative", downPayment: -1},
		{name: "equal to price", downPayment: 250000},
		{name: "above price", downPayment: 300000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := financing.Calculate(domain.FinancingRequest{
				CarPrice:    250000,
				DownPayment: tt.downPayment,
				Years:       4,
			})

			var dpErr *InvalidDownPaymentError
			assert.True(t, errors.As(err, &dpErr))
		})
	}
}

func TestGetOptions(t *testing.T) {
	financing := NewFinancingService()
	dp := 50000.0

	options := financing.GetOptions(250000, &dp)

	require.Len(t, options, 4)
	for i, plan := range options {
		assert.Equal(t, MinFinancingYears+i, plan.Years)
		assert.Equal(t, dp, plan.DownPayment)
	}
	// A mayor plazo, mensualidad menor.
	for i := 1; i < len(options); i++ {
		assert.Less(t, options[i].MonthlyPayment, options[i-1].MonthlyPayment)
	}
}

func TestGetOptions_DefaultDownPayment(t *testing.T) {
	financing := NewFinancingService()

	options := financing.GetOptions(250000, nil)

	require.Len(t, options, 4)
	for _, plan := range options {
		assert.Equal(t, 50000.0, plan.DownPayment)
	}
}

func TestGetOptions_InvalidDownPaymentYieldsNothing(t *testing.T) {
	financing := NewFinancingService()
	dp := 250000.0

	options := financing.GetOptions(250000, &dp)

	assert.Empty(t, options)
}
