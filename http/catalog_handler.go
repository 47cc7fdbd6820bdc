package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"car-sales-agent/domain"
	"car-sales-agent/service"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GetCars busca autos con los filtros de query. Parámetros ausentes no
// restringen la búsqueda.
func (h *CatalogHandler) GetCars(w http.ResponseWriter, r *http.Request) {

	q := r.URL.Query()
	filter := domain.CarFilter{
		Make:  optionalStringParam(q.Get("make")),
		Model: optionalStringParam(q.Get("model")),
	}

	var err error
	if filter.MinPrice, err = optionalFloatParam(q.Get("min_price")); err != nil {
		http.Error(w, "invalid min_price", http.StatusBadRequest)
		return
	}
	if filter.MaxPrice, err = optionalFloatParam(q.Get("max_price")); err != nil {
		http.Error(w, "invalid max_price", http.StatusBadRequest)
		return
	}
	if filter.MaxKM, err = optionalIntParam(q.Get("max_km")); err != nil {
		http.Error(w, "invalid max_km", http.StatusBadRequest)
		return
	}
	if filter.MinYear, err = optionalIntParam(q.Get("min_year")); err != nil {
		http.Error(w, "invalid min_year", http.StatusBadRequest)
		return
	}
	if filter.MaxYear, err = optionalIntParam(q.Get("max_year")); err != nil {
		http.Error(w, "invalid max_year", http.StatusBadRequest)
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}

	cars := h.catalog.SearchCars(filter, limit)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"cars":  cars,
		"count": len(cars),
	})
}

func (h *CatalogHandler) GetCarByID(w http.ResponseWriter, r *http.Request) {

	car, ok := h.catalog.GetCarByID(r.PathValue("stock_id"))
	if !ok {
		http.Error(w, "car not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"car": car})
}

func (h *CatalogHandler) GetStats(w http.ResponseWriter, r *http.Request) {

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"total_cars":    h.catalog.TotalCars(),
		"price_range":   h.catalog.PriceRange(),
		"popular_makes": h.catalog.PopularMakes(service.PopularMakesCount),
	})
}

func optionalStringParam(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func optionalFloatParam(v string) (*float64, error) {
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func optionalIntParam(v string) (*int, error) {
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
