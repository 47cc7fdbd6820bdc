package service

const (
	// Tasa nominal anual fija para todos los planes de financiamiento.
	AnnualInterestRate = 0.10

	// Rango cerrado de plazos permitidos, en años.
	MinFinancingYears = 3
	MaxFinancingYears = 6

	// Enganche por defecto cuando el cliente no indica uno.
	DefaultDownPaymentRate = 0.20

	// Resultados de búsqueda por defecto.
	DefaultSearchLimit = 5

	// Umbral de aceptación del matching difuso, en escala 0-100.
	FuzzyMatchThreshold = 70

	// Marcas a devolver en las estadísticas del catálogo.
	PopularMakesCount = 10
)
