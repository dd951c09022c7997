package order

import "encoding/json"

// FlexString is a string that also accepts JSON numbers, booleans, and null.
// Extraction models occasionally emit bare numbers for fields the prompt asks
// for as strings; the literal text is kept so downstream cleaning sees exactly
// what the model produced.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(b)
	return nil
}

func (f FlexString) String() string { return string(f) }

// PurchaseOrder is the strongly-typed representation of an extracted purchase order.
type PurchaseOrder struct {
	Header    OrderHeader `json:"header"`
	LineItems []LineItem  `json:"line_items"`
	Notes     FlexString  `json:"notes"`
}

// OrderHeader holds top-level order metadata.
type OrderHeader struct {
	Supplier      FlexString `json:"supplier"`
	Purchaser     FlexString `json:"purchaser"`
	VendorOrderNo FlexString `json:"vendor_order_no"`
	PONumber      FlexString `json:"po_number"`
	OrderDate     FlexString `json:"order_date"`
	Address       FlexString `json:"address"`
	TotalAmount   FlexString `json:"total_amount"`
}

// LineItem represents a single line item on the order. All values are kept as
// the raw text the model read off the page; numeric coercion happens in the
// audit core.
type LineItem struct {
	Index          FlexString  `json:"index"`
	ItemDate       FlexString  `json:"item_date"`
	ItemOrderNo    FlexString  `json:"item_order_no"`
	Brand          FlexString  `json:"brand"`
	ProductName    FlexString  `json:"product_name"`
	Spec           FlexString  `json:"spec"`
	Quantity       FlexString  `json:"quantity"`
	Unit           FlexString  `json:"unit"`
	Prices         PriceFields `json:"prices"`
	RawPriceTokens FlexString  `json:"raw_price_tokens"`
	Weight         FlexString  `json:"weight"`
	Remarks        FlexString  `json:"remarks"`
}

// PriceFields holds the four price columns of a line item.
type PriceFields struct {
	ListPrice       FlexString `json:"list_price"`
	DiscountPercent FlexString `json:"discount_percent"`
	UnitPrice       FlexString `json:"unit_price"`
	Amount          FlexString `json:"amount"`
}

// HasStructuredPrices reports whether the model already filled the price
// columns. When false the raw token allocation runs instead.
func (li LineItem) HasStructuredPrices() bool {
	return li.Prices.UnitPrice != "" || li.Prices.Amount != ""
}

// OrderConfidence mirrors the PurchaseOrder structure with float64 values.
type OrderConfidence struct {
	Header    HeaderConfidence     `json:"header"`
	LineItems []LineItemConfidence `json:"line_items"`
	Notes     float64              `json:"notes"`
}

// HeaderConfidence holds confidence for header fields.
type HeaderConfidence struct {
	Supplier      float64 `json:"supplier"`
	Purchaser     float64 `json:"purchaser"`
	VendorOrderNo float64 `json:"vendor_order_no"`
	PONumber      float64 `json:"po_number"`
	OrderDate     float64 `json:"order_date"`
	Address       float64 `json:"address"`
	TotalAmount   float64 `json:"total_amount"`
}

// LineItemConfidence holds confidence for line item fields. Overall is the
// model's confidence in the item as a whole and seeds the audited confidence.
type LineItemConfidence struct {
	Index          float64         `json:"index"`
	ItemDate       float64         `json:"item_date"`
	ItemOrderNo    float64         `json:"item_order_no"`
	Brand          float64         `json:"brand"`
	ProductName    float64         `json:"product_name"`
	Spec           float64         `json:"spec"`
	Quantity       float64         `json:"quantity"`
	Unit           float64         `json:"unit"`
	Prices         PriceConfidence `json:"prices"`
	RawPriceTokens float64         `json:"raw_price_tokens"`
	Weight         float64         `json:"weight"`
	Remarks        float64         `json:"remarks"`
	Overall        float64         `json:"overall"`
}

// PriceConfidence holds confidence for the price columns.
type PriceConfidence struct {
	ListPrice       float64 `json:"list_price"`
	DiscountPercent float64 `json:"discount_percent"`
	UnitPrice       float64 `json:"unit_price"`
	Amount          float64 `json:"amount"`
}
