package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"car-sales-agent/domain"
)

// CatalogService expone lecturas filtrables sobre el inventario en memoria.
// El catálogo no se modifica después de la carga, así que las lecturas
// concurrentes son seguras sin locks.
type CatalogService struct {
	cars        []domain.Car
	droppedRows int
}

// NewCatalogService crea el servicio sobre un inventario ya cargado.
func NewCatalogService(cars []domain.Car) *CatalogService {
	return &CatalogService{cars: cars}
}

// NewCatalogServiceFromCSV carga el inventario desde un archivo CSV. Las
// filas malformadas se descartan una por una sin abortar la carga; el
// conteo queda disponible en DroppedRows.
func NewCatalogServiceFromCSV(path string) (*CatalogService, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	cars, dropped, err := ParseCatalogCSV(f)
	if err != nil {
		return nil, err
	}
	return &CatalogService{cars: cars, droppedRows: dropped}, nil
}

// ParseCatalogCSV lee registros de vehículos de un CSV con encabezado.
// Devuelve los autos válidos y cuántas filas se descartaron por errores de
// parseo.
func ParseCatalogCSV(r io.Reader) ([]domain.Car, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read catalog header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	for _, required := range []string{"stock_id", "km", "price", "make", "model", "year"} {
		if _, ok := cols[required]; !ok {
			return nil, 0, fmt.Errorf("catalog is missing required column %q", required)
		}
	}

	var cars []domain.Car
	dropped := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: dropping catalog row %d: %v", line, err)
			dropped++
			continue
		}

		car, err := parseCarRow(record, cols)
		if err != nil {
			log.Printf("Warning: dropping catalog row %d: %v", line, err)
			dropped++
			continue
		}
		cars = append(cars, car)
	}
	return cars, dropped, nil
}

func parseCarRow(record []string, cols map[string]int) (domain.Car, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	stockID := field("stock_id")
	if stockID == "" {
		return domain.Car{}, fmt.Errorf("empty stock_id")
	}

	km, err := strconv.Atoi(field("km"))
	if err != nil || km < 0 {
		return domain.Car{}, fmt.Errorf("invalid km %q", field("km"))
	}
	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil || price <= 0 {
		return domain.Car{}, fmt.Errorf("invalid price %q", field("price"))
	}
	year, err := strconv.Atoi(field("year"))
	if err != nil {
		return domain.Car{}, fmt.Errorf("invalid year %q", field("year"))
	}

	make, model := field("make"), field("model")
	if make == "" || model == "" {
		return domain.Car{}, fmt.Errorf("empty make or model")
	}

	return domain.Car{
		StockID:   stockID,
		KM:        km,
		Price:     price,
		Make:      make,
		Model:     model,
		Year:      year,
		Version:   optionalString(field("version")),
		Bluetooth: optionalString(field("bluetooth")),
		CarPlay:   optionalString(field("car_play")),
		Largo:     optionalFloat(field("largo")),
		Ancho:     optionalFloat(field("ancho")),
		Altura:    optionalFloat(field("altura")),
	}, nil
}

// optionalString normaliza celdas vacías o "nan" (herencia del origen de
// datos) a cadena vacía.
func optionalString(v string) string {
	if v == "" || strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

func optionalFloat(v string) *float64 {
	if v == "" || strings.EqualFold(v, "nan") {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

// DroppedRows reporta cuántas filas se descartaron durante la carga.
func (s *CatalogService) DroppedRows() int {
	return s.droppedRows
}

// TotalCars devuelve el tamaño del inventario.
func (s *CatalogService) TotalCars() int {
	return len(s.cars)
}

// SearchCars filtra el inventario y devuelve hasta limit autos ordenados por
// precio ascendente. Los filtros se aplican en orden fijo: marca, modelo,
// precio mínimo, precio máximo, kilometraje, año mínimo, año máximo. El
// orden solo importa para los filtros difusos: el modelo se resuelve contra
// los valores que quedan después de filtrar por marca. Un filtro difuso sin
// match por encima del umbral se ignora en silencio.
func (s *CatalogService) SearchCars(filter domain.CarFilter, limit int) []domain.Car {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	subset := s.cars
	if filter.Make != nil {
		subset = fuzzyFilter(subset, *filter.Make, func(c domain.Car) string { return c.Make })
	}
	if filter.Model != nil {
		subset = fuzzyFilter(subset, *filter.Model, func(c domain.Car) string { return c.Model })
	}

	var filtered []domain.Car
	for _, car := range subset {
		if filter.MinPrice != nil && car.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && car.Price > *filter.MaxPrice {
			continue
		}
		if filter.MaxKM != nil && car.KM > *filter.MaxKM {
			continue
		}
		if filter.MinYear != nil && car.Year < *filter.MinYear {
			continue
		}
		if filter.MaxYear != nil && car.Year > *filter.MaxYear {
			continue
		}
		filtered = append(filtered, car)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Price < filtered[j].Price
	})

	if len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered
}

// fuzzyFilter resuelve un texto libre contra los valores distintos presentes
// en el subconjunto actual. Si el mejor match alcanza el umbral, restringe a
// igualdad exacta con ese valor; si no, devuelve el subconjunto intacto.
func fuzzyFilter(cars []domain.Car, input string, value func(domain.Car) string) []domain.Car {
	seen := make(map[string]bool)
	var candidates []string
	for _, car := range cars {
		v := value(car)
		if !seen[v] {
			seen[v] = true
			candidates = append(candidates, v)
		}
	}

	match, score := bestMatch(input, candidates)
	if score < FuzzyMatchThreshold {
		return cars
	}

	var out []domain.Car
	for _, car := range cars {
		if value(car) == match {
			out = append(out, car)
		}
	}
	return out
}

// GetCarByID busca un auto por su identificador de inventario.
func (s *CatalogService) GetCarByID(stockID string) (domain.Car, bool) {
	for _, car := range s.cars {
		if car.StockID == stockID {
			return car, true
		}
	}
	return domain.Car{}, false
}

// PriceRange resume precio mínimo, máximo y promedio del catálogo.
func (s *CatalogService) PriceRange() domain.PriceStats {
	if len(s.cars) == 0 {
		return domain.PriceStats{}
	}

	stats := domain.PriceStats{Min: s.cars[0].Price, Max: s.cars[0].Price}
	total := 0.0
	for _, car := range s.cars {
		if car.Price < stats.Min {
			stats.Min = car.Price
		}
		if car.Price > stats.Max {
			stats.Max = car.Price
		}
		total += car.Price
	}
	stats.Avg = roundTo2Decimals(total / float64(len(s.cars)))
	return stats
}

// PopularMakes devuelve hasta n marcas ordenadas por frecuencia descendente.
// Con empate de frecuencia el orden es alfabético, para que el resultado sea
// determinista.
func (s *CatalogService) PopularMakes(n int) []string {
	counts := make(map[string]int)
	for _, car := range s.cars {
		counts[car.Make]++
	}

	makes := make([]string, 0, len(counts))
	for make := range counts {
		makes = append(makes, make)
	}
	sort.Slice(makes, func(i, j int) bool {
		if counts[makes[i]] != counts[makes[j]] {
			return counts[makes[i]] > counts[makes[j]]
		}
		return makes[i] < makes[j]
	})

	if len(makes) > n {
		makes = makes[:n]
	}
	return makes
}
