package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/tillworks/pos-api/internal/domain/cart"
)

const maxBodySize = 1 << 20

var errBadBody = errors.New("malformed request body")

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, errBadBody
	}
	return body, nil
}

// decodeOrderRequest parses the create-order payload. Scalars stay loosely
// typed; the cart validator owns every coercion and range rule.
func decodeOrderRequest(body []byte) (lines []cart.RawLine, payments []cart.RawPayment, err error) {
	d := jx.DecodeBytes(body)
	err = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "lines":
			return d.Arr(func(d *jx.Decoder) error {
				l, err := decodeRawLine(d)
				if err != nil {
					return err
				}
				lines = append(lines, l)
				return nil
			})
		case "payments":
			return d.Arr(func(d *jx.Decoder) error {
				p, err := decodeRawPayment(d)
				if err != nil {
					return err
				}
				payments = append(payments, p)
				return nil
			})
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return nil, nil, errBadBody
	}
	return lines, payments, nil
}

func decodeRawLine(d *jx.Decoder) (cart.RawLine, error) {
	var l cart.RawLine
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		v, err := decodeScalar(d)
		if err != nil {
			return err
		}
		switch string(key) {
		case "productId":
			l.ProductID = v
		case "name":
			l.Name = v
		case "qty":
			l.Qty = v
		case "priceCents":
			l.PriceCents = v
		case "listPriceCents":
			l.ListPriceCents = v
		case "comment":
			l.Comment = v
		}
		return nil
	})
	return l, err
}

func decodeRawPayment(d *jx.Decoder) (cart.RawPayment, error) {
	var p cart.RawPayment
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		v, err := decodeScalar(d)
		if err != nil {
			return err
		}
		switch string(key) {
		case "methodId":
			p.MethodID = v
		case "amountCents":
			p.AmountCents = v
		}
		return nil
	})
	return p, err
}

// decodeScalar reads one JSON value as a loosely typed scalar. Integral
// numbers decode to int64, everything else keeps its JSON shape so the
// validator can reject it with the right reason.
func decodeScalar(d *jx.Decoder) (any, error) {
	switch d.Next() {
	case jx.Number:
		n, err := d.Num()
		if err != nil {
			return nil, err
		}
		if n.IsInt() {
			return n.Int64()
		}
		return n.Float64()
	case jx.String:
		return d.Str()
	case jx.Null:
		return nil, d.Null()
	case jx.Bool:
		return d.Bool()
	default:
		return nil, d.Skip()
	}
}

// decodeCredentials parses a username/password payload, used by both
// register and login.
func decodeCredentials(body []byte) (username, password, confirm string, err error) {
	d := jx.DecodeBytes(body)
	err = d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "username":
			username, err = d.Str()
			return err
		case "password":
			password, err = d.Str()
			return err
		case "confirmPassword", "confirmation":
			confirm, err = d.Str()
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		return "", "", "", errBadBody
	}
	return username, password, confirm, nil
}
