package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/iurnickita/checkout/internal/auth"
	"github.com/iurnickita/checkout/internal/cart"
	"github.com/iurnickita/checkout/internal/gzip"
	"github.com/iurnickita/checkout/internal/handler/config"
	"github.com/iurnickita/checkout/internal/logger"
	"github.com/iurnickita/checkout/internal/model"
	"github.com/iurnickita/checkout/internal/payment"
	"github.com/iurnickita/checkout/internal/service"
)

func Serve(cfg config.Config, auth auth.Auth, service service.Service, coupons *cart.CouponBook, zaplog *zap.Logger) error {
	h := newHandler(auth, service, coupons, zaplog)
	router := h.newRouter()

	srv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: router,
	}

	return srv.ListenAndServe()
}

type handler struct {
	auth    auth.Auth
	service service.Service
	coupons *cart.CouponBook
	zaplog  *zap.Logger
}

func newHandler(auth auth.Auth, service service.Service, coupons *cart.CouponBook, zaplog *zap.Logger) *handler {
	return &handler{
		auth:    auth,
		service: service,
		coupons: coupons,
		zaplog:  zaplog,
	}
}

func (h *handler) newRouter() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/user/register", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Register, h.zaplog)))
	mux.HandleFunc("POST /api/user/login", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Login, h.zaplog)))
	mux.HandleFunc("POST /api/user/orders", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Middleware(h.SubmitOrder), h.zaplog)))
	mux.HandleFunc("GET /api/user/orders", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Middleware(h.GetOrders), h.zaplog)))
	mux.HandleFunc("POST /api/user/orders/{number}/cancel", gzip.GzipMiddleware(logger.RequestLogMdlw(h.auth.Middleware(h.CancelOrder), h.zaplog)))
	mux.HandleFunc("GET /api/inventory", gzip.GzipMiddleware(logger.RequestLogMdlw(h.GetInventory, h.zaplog)))
	mux.HandleFunc("GET /api/inventory/low", gzip.GzipMiddleware(logger.RequestLogMdlw(h.GetLowStock, h.zaplog)))
	mux.HandleFunc("POST /api/inventory", gzip.GzipMiddleware(logger.RequestLogMdlw(h.AddProduct, h.zaplog)))
	mux.HandleFunc("DELETE /api/inventory/{id}", gzip.GzipMiddleware(logger.RequestLogMdlw(h.RemoveProduct, h.zaplog)))

	return mux
}

type SubmitOrderJSONRequest struct {
	Items []struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
	Coupons []string          `json:"coupons"`
	Payment map[string]string `json:"payment"`
}

type OrderJSONResponse struct {
	Number     string                  `json:"number"`
	Lines      []OrderLineJSONResponse `json:"lines"`
	Coupons    []string                `json:"coupons,omitempty"`
	Subtotal   float64                 `json:"subtotal"`
	Total      float64                 `json:"total"`
	Status     string                  `json:"status"`
	Created_at time.Time               `json:"created_at"`
}

type OrderLineJSONResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

func (h *handler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var request SubmitOrderJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	userCode := r.Header.Get(auth.HeaderUserCodeKey)

	// сборка корзины: строки с ценами из каталога, затем купоны
	c := cart.New(userCode)
	for _, item := range request.Items {
		info, ok := h.service.ProductInfo(r.Context(), item.ProductID)
		if !ok {
			http.Error(w, "unknown product: "+item.ProductID, http.StatusUnprocessableEntity)
			return
		}
		if err := c.AddItem(info, item.Quantity); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	for _, code := range request.Coupons {
		coupon, err := h.coupons.Get(code)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		if err := c.ApplyCoupon(coupon); err != nil {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
	}

	order, err := h.service.SubmitOrder(r.Context(), c, payment.Details(request.Payment))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart), errors.Is(err, service.ErrInsufficientData):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, service.ErrOutOfStock):
			http.Error(w, err.Error(), http.StatusConflict)
		case errors.Is(err, service.ErrPaymentDeclined):
			http.Error(w, err.Error(), http.StatusPaymentRequired)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(orderJSON(order))
}

func (h *handler) GetOrders(w http.ResponseWriter, r *http.Request) {
	userCode := r.Header.Get(auth.HeaderUserCodeKey)

	orders, err := h.service.GetOrders(r.Context(), userCode)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(orders) == 0 {
		http.Error(w, "", http.StatusNoContent)
		return
	}

	ordersJSON := make([]OrderJSONResponse, 0, len(orders))
	for _, order := range orders {
		ordersJSON = append(ordersJSON, orderJSON(order))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ordersJSON)
}

func (h *handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	userCode := r.Header.Get(auth.HeaderUserCodeKey)
	number := r.PathValue("number")

	// заказ другого покупателя не раскрываем: тот же 404
	order, err := h.service.GetOrder(r.Context(), number)
	if err != nil || order.Customer != userCode {
		http.Error(w, service.ErrOrderNotFound.Error(), http.StatusNotFound)
		return
	}

	err = h.service.CancelOrder(r.Context(), number)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.Is(err, service.ErrOrderAlreadyCancelled):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	w.WriteHeader(http.StatusOK)
}

type ProductJSONResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Available int     `json:"available"`
	Category  string  `json:"category"`
}

func (h *handler) GetInventory(w http.ResponseWriter, r *http.Request) {
	status := h.service.InventoryStatus(r.Context())
	h.writeInventory(w, status)
}

func (h *handler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	var threshold int
	if param := r.URL.Query().Get("threshold"); param != "" {
		n, err := strconv.Atoi(param)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		threshold = n
	}
	low := h.service.LowStock(r.Context(), threshold)
	h.writeInventory(w, low)
}

func (h *handler) writeInventory(w http.ResponseWriter, infos []model.ProductInfo) {
	productsJSON := make([]ProductJSONResponse, 0, len(infos))
	for _, info := range infos {
		productsJSON = append(productsJSON, ProductJSONResponse{
			ID:        info.ID,
			Name:      info.Name,
			Price:     amountOutput(info.Price),
			Available: info.Available,
			Category:  info.Category,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(productsJSON)
}

type AddProductJSONRequest struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	Category string  `json:"category"`
}

func (h *handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var request AddProductJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if request.ID == "" || request.Name == "" {
		http.Error(w, "id and name required", http.StatusBadRequest)
		return
	}

	h.service.AddProduct(r.Context(), model.Product{
		ID:       request.ID,
		Name:     request.Name,
		Price:    amountInput(request.Price),
		Stock:    request.Stock,
		Category: request.Category,
	})
	w.WriteHeader(http.StatusCreated)
}

func (h *handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	h.service.RemoveProduct(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusOK)
}

func orderJSON(order model.Order) OrderJSONResponse {
	lines := make([]OrderLineJSONResponse, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLineJSONResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: amountOutput(line.UnitPrice),
		})
	}
	return OrderJSONResponse{
		Number:     order.Number,
		Lines:      lines,
		Coupons:    order.Coupons,
		Subtotal:   amountOutput(order.Subtotal),
		Total:      amountOutput(order.Total),
		Status:     order.Status,
		Created_at: order.CreatedAt,
	}
}

func amountOutput(cents int64) float64 {
	return float64(cents) / 100
}

func amountInput(amount float64) int64 {
	return int64(amount * 100)
}
