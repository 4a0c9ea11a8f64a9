package main

import (
	"io"
	"net/http"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront-challenge/db"
	"github.com/xenking/storefront-challenge/internal/api"
	"github.com/xenking/storefront-challenge/internal/domain/product"
)

// server implements the two storefront endpoints over the embedded
// fixture. Orders are kept in memory for the lifetime of the process.
type server struct {
	raw  []byte
	byID map[string]product.Product

	mu     sync.Mutex
	orders map[string]decimal.Decimal
}

func newServer() (*server, error) {
	list, err := api.ParseProductList(db.Products)
	if err != nil {
		return nil, errors.Wrap(err, "parse product fixture")
	}

	byID := make(map[string]product.Product, len(list.Items))
	for _, p := range list.Items {
		byID[p.ID] = p
	}
	return &server{
		raw:    db.Products,
		byID:   byID,
		orders: make(map[string]decimal.Decimal),
	}, nil
}

// handleProducts serves the fixture verbatim.
func (s *server) handleProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(s.raw)
}

// orderReq is the POST /order request body.
type orderReq struct {
	Payment string
	Address string
	Email   string
	Phone   string
	Total   decimal.Decimal
	Items   []string
}

// handleOrder validates the payload the way the production API does:
// known purchasable items and a total matching their price sum.
func (s *server) handleOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body")
		return
	}
	req, err := decodeOrderReq(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed order")
		return
	}

	if msg, ok := s.validate(req); !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	id := uuid.New().String()
	s.mu.Lock()
	s.orders[id] = req.Total
	s.mu.Unlock()

	zctx.From(r.Context()).Info("order accepted",
		zap.String("order_id", id),
		zap.String("total", req.Total.String()),
		zap.Int("items", len(req.Items)),
	)

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(id) })
		e.Field("total", func(e *jx.Encoder) { e.Num(jx.Num(req.Total.String())) })
	})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(e.Bytes())
}

func (s *server) validate(req orderReq) (string, bool) {
	if len(req.Items) == 0 {
		return "items required", false
	}
	if req.Payment == "" {
		return "payment method required", false
	}
	if req.Address == "" {
		return "address required", false
	}
	if req.Email == "" || req.Phone == "" {
		return "contacts required", false
	}

	sum := decimal.Zero
	for _, id := range req.Items {
		p, ok := s.byID[id]
		if !ok {
			return "product not found: " + id, false
		}
		if !p.ForSale() {
			return "product is not for sale: " + id, false
		}
		sum = sum.Add(p.Price.Decimal)
	}
	if !sum.Equal(req.Total) {
		return "total mismatch", false
	}
	return "", true
}

func decodeOrderReq(data []byte) (orderReq, error) {
	var req orderReq
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "payment":
			req.Payment, err = d.Str()
		case "address":
			req.Address, err = d.Str()
		case "email":
			req.Email, err = d.Str()
		case "phone":
			req.Phone, err = d.Str()
		case "total":
			num, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "total")
			}
			req.Total, err = decimal.NewFromString(num.String())
			return errors.Wrap(err, "total")
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				id, err := d.Str()
				if err != nil {
					return err
				}
				req.Items = append(req.Items, id)
				return nil
			})
		default:
			return d.Skip()
		}
		return errors.Wrap(err, key)
	})
	return req, err
}

func writeError(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("error", func(e *jx.Encoder) { e.Str(msg) })
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
