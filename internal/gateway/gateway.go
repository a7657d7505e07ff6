// Package gateway wraps the external payment gateway. The rest of the system
// talks to the Client interface only; the Razorpay implementation is injected
// at startup so tests can substitute a double.
package gateway

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/fairyhunter13/secure-checkout-system/internal/model"
)

// ErrUnavailable is returned when the gateway cannot be reached or rejects
// the call. Intent creation is idempotency-tokened, so callers may retry.
var ErrUnavailable = errors.New("payment gateway unavailable")

// Intent is a gateway-side payment intent. It is never persisted locally; it
// exists so the client can complete payment and so the verifier can fetch
// back the metadata captured at creation time.
type Intent struct {
	ID       string
	Amount   int64 // paise
	Currency string
	Metadata Metadata
}

// Client is the capability used to create and fetch payment intents.
type Client interface {
	// CreateIntent opens one intent at the gateway for the given amount,
	// attaching the metadata bundle for later reconciliation.
	CreateIntent(ctx context.Context, amount int64, currency, receipt string, md Metadata) (*Intent, error)
	// FetchIntent retrieves an intent by its gateway order id, including the
	// metadata bundle written at creation time.
	FetchIntent(ctx context.Context, orderID string) (*Intent, error)
}

// Metadata is the tamper-evident bundle attached to an intent. The verifier
// rebuilds the authoritative order detail from it instead of trusting
// caller-supplied fields.
type Metadata struct {
	UserID             string
	CouponID           string // empty when no coupon applied
	DiscountPercentage int
	Items              []model.LineItem
}

// noteItem is the wire shape of one snapshot line inside gateway notes.
type noteItem struct {
	ID       string `json:"id"`
	Quantity int64  `json:"quantity"`
	Price    int64  `json:"price"`
}

// Notes serializes the metadata into the gateway's string-keyed notes map.
func (m Metadata) Notes() (map[string]interface{}, error) {
	items := make([]noteItem, 0, len(m.Items))
	for _, it := range m.Items {
		items = append(items, noteItem{ID: it.ProductID, Quantity: it.Quantity, Price: it.UnitPrice})
	}
	products, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("marshal products snapshot: %w", err)
	}
	return map[string]interface{}{
		"userId":             m.UserID,
		"couponId":           m.CouponID,
		"discountPercentage": strconv.Itoa(m.DiscountPercentage),
		"products":           string(products),
	}, nil
}

// MetadataFromNotes rebuilds the metadata bundle from a fetched notes map.
func MetadataFromNotes(notes map[string]interface{}) (Metadata, error) {
	md := Metadata{
		UserID:   noteString(notes, "userId"),
		CouponID: noteString(notes, "couponId"),
	}
	if md.UserID == "" {
		return Metadata{}, errors.New("notes missing userId")
	}

	pctRaw := noteString(notes, "discountPercentage")
	if pctRaw != "" {
		pct, err := strconv.Atoi(pctRaw)
		if err != nil {
			return Metadata{}, fmt.Errorf("parse discountPercentage: %w", err)
		}
		md.DiscountPercentage = pct
	}

	productsRaw := noteString(notes, "products")
	if productsRaw == "" {
		return Metadata{}, errors.New("notes missing products snapshot")
	}
	var items []noteItem
	if err := json.Unmarshal([]byte(productsRaw), &items); err != nil {
		return Metadata{}, fmt.Errorf("unmarshal products snapshot: %w", err)
	}
	md.Items = make([]model.LineItem, 0, len(items))
	for _, it := range items {
		md.Items = append(md.Items, model.LineItem{ProductID: it.ID, Quantity: it.Quantity, UnitPrice: it.Price})
	}
	return md, nil
}

func noteString(notes map[string]interface{}, key string) string {
	v, ok := notes[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// receiptWindow is the coarse time bucket for receipt tokens. A retried
// submission of the same logical checkout inside one window carries the same
// receipt, so the gateway recognizes it instead of opening a second intent.
const receiptWindow = 15 * time.Minute

// ReceiptToken derives a deterministic receipt for a logical checkout from
// the user, the cart content, the coupon, and the time window. Razorpay caps
// receipts at 40 characters, so the digest is truncated.
func ReceiptToken(userID string, items []model.LineItem, couponCode string, now time.Time) string {
	sorted := make([]model.LineItem, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ProductID != sorted[j].ProductID {
			return sorted[i].ProductID < sorted[j].ProductID
		}
		if sorted[i].UnitPrice != sorted[j].UnitPrice {
			return sorted[i].UnitPrice < sorted[j].UnitPrice
		}
		return sorted[i].Quantity < sorted[j].Quantity
	})

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d", userID, couponCode, now.Unix()/int64(receiptWindow.Seconds()))
	for _, it := range sorted {
		fmt.Fprintf(h, "|%s:%d:%d", it.ProductID, it.Quantity, it.UnitPrice)
	}
	return "rcpt_" + hex.EncodeToString(h.Sum(nil))[:32]
}
