package api

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront-challenge/internal/domain/product"
)

// ProductList mirrors the GET /product response body. The stub server
// parses the same shape when loading its fixture.
type ProductList struct {
	Total int
	Items []product.Product
}

// ParseProductList decodes a GET /product response body.
func ParseProductList(data []byte) (ProductList, error) {
	var list ProductList
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "total":
			n, err := d.Int()
			if err != nil {
				return errors.Wrap(err, "total")
			}
			list.Total = n
			return nil
		case "items":
			return d.Arr(func(d *jx.Decoder) error {
				p, err := decodeProduct(d)
				if err != nil {
					return err
				}
				list.Items = append(list.Items, p)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return ProductList{}, err
	}
	return list, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "title":
			p.Title, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "image":
			p.Image, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "price":
			// null means "not for sale".
			if d.Next() == jx.Null {
				return d.Null()
			}
			num, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "price")
			}
			dec, err := decimal.NewFromString(num.String())
			if err != nil {
				return errors.Wrap(err, "price")
			}
			p.Price = decimal.NewNullDecimal(dec)
			return nil
		default:
			return d.Skip()
		}
		return errors.Wrap(err, key)
	})
	return p, err
}

func encodeOrderPayload(payload OrderPayload) []byte {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("payment", func(e *jx.Encoder) { e.Str(payload.Payment) })
		e.Field("address", func(e *jx.Encoder) { e.Str(payload.Address) })
		e.Field("email", func(e *jx.Encoder) { e.Str(payload.Email) })
		e.Field("phone", func(e *jx.Encoder) { e.Str(payload.Phone) })
		e.Field("total", func(e *jx.Encoder) { e.Num(jx.Num(payload.Total.String())) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, id := range payload.Items {
					e.Str(id)
				}
			})
		})
	})
	return e.Bytes()
}

func decodeOrderConfirmation(data []byte) (OrderConfirmation, error) {
	var conf OrderConfirmation
	d := jx.DecodeBytes(data)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			id, err := d.Str()
			if err != nil {
				return errors.Wrap(err, "id")
			}
			conf.ID = id
			return nil
		case "total":
			num, err := d.Num()
			if err != nil {
				return errors.Wrap(err, "total")
			}
			dec, err := decimal.NewFromString(num.String())
			if err != nil {
				return errors.Wrap(err, "total")
			}
			conf.Total = dec
			return nil
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return OrderConfirmation{}, err
	}
	return conf, nil
}

// decodeErrorMessage extracts the message from an {"error": ...} failure
// body. A body that does not parse falls back to a generic message rather
// than failing the failure path.
func decodeErrorMessage(data []byte) string {
	msg := "request failed"
	d := jx.DecodeBytes(data)
	_ = d.Obj(func(d *jx.Decoder, key string) error {
		if key != "error" {
			return d.Skip()
		}
		s, err := d.Str()
		if err != nil {
			return err
		}
		msg = s
		return nil
	})
	return msg
}
