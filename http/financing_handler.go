package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"car-sales-agent/domain"
	"car-sales-agent/service"
)

type FinancingHandler struct {
	financing *service.FinancingService
}

func NewFinancingHandler(financing *service.FinancingService) *FinancingHandler {
	return &FinancingHandler{financing: financing}
}

func (h *FinancingHandler) Calculate(w http.ResponseWriter, r *http.Request) {

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req domain.FinancingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	plan, err := h.financing.Calculate(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"financing_plan": plan})
}

func (h *FinancingHandler) Options(w http.ResponseWriter, r *http.Request) {

	q := r.URL.Query()
	carPrice, err := strconv.ParseFloat(q.Get("car_price"), 64)
	if err != nil {
		http.Error(w, "invalid car_price", http.StatusBadRequest)
		return
	}

	var downPayment *float64
	if raw := q.Get("down_payment"); raw != "" {
		dp, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			http.Error(w, "invalid down_payment", http.StatusBadRequest)
			return
		}
		downPayment = &dp
	}

	options := h.financing.GetOptions(carPrice, downPayment)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"financing_options": options})
}
