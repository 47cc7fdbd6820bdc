package domain

// Car representa un vehículo del catálogo. Inmutable después de la carga:
// el catálogo es de solo lectura durante la vida del proceso.
type Car struct {
	StockID   string   `json:"stock_id"`
	KM        int      `json:"km"`
	Price     float64  `json:"price"`
	Make      string   `json:"make"`
	Model     string   `json:"model"`
	Year      int      `json:"year"`
	Version   string   `json:"version,omitempty"`
	Bluetooth string   `json:"bluetooth,omitempty"`
	CarPlay   string   `json:"car_play,omitempty"`
	Largo     *float64 `json:"largo,omitempty"`
	Ancho     *float64 `json:"ancho,omitempty"`
	Altura    *float64 `json:"altura,omitempty"`
}

// CarFilter describe criterios de búsqueda. Un campo nil no impone
// restricción; make y model se resuelven con matching difuso.
type CarFilter struct {
	Make     *string  `json:"make,omitempty"`
	Model    *string  `json:"model,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	MaxKM    *int     `json:"max_km,omitempty"`
	MinYear  *int     `json:"min_year,omitempty"`
	MaxYear  *int     `json:"max_year,omitempty"`
}

// PriceStats resume los precios del catálogo.
type PriceStats struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
}
